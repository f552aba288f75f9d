/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package quotefile reads and writes quote specs as JSON documents
// validated against an embedded JSON schema.
package quotefile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"quotegen/internal/domain"
	"quotegen/internal/storage"
)

//go:embed quote.schema.json
var schemaJSON []byte

// Schema returns the JSON schema quote files are validated against.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid quote file: " + strings.Join(e.Problems, "; ")
}

var schema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("quote schema: %v", err))
	}
	return s
}()

// Parse validates data and decodes it into a QuoteSpec.
func Parse(data []byte) (domain.QuoteSpec, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return domain.QuoteSpec{}, fmt.Errorf("parse quote file: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, e := range result.Errors() {
			verr.Problems = append(verr.Problems, e.String())
		}
		return domain.QuoteSpec{}, verr
	}
	var q domain.QuoteSpec
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.QuoteSpec{}, fmt.Errorf("decode quote file: %w", err)
	}
	return q, nil
}

// Load reads and parses the quote file at path.
func Load(path string) (domain.QuoteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.QuoteSpec{}, fmt.Errorf("read quote file: %w", err)
	}
	q, err := Parse(data)
	if err != nil {
		return domain.QuoteSpec{}, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// Marshal encodes q in the indented form written by Save.
func Marshal(q domain.QuoteSpec) ([]byte, error) {
	if !q.HasText() {
		return nil, errors.New("quote text is empty")
	}
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes q to path atomically.
func Save(path string, q domain.QuoteSpec) error {
	data, err := Marshal(q)
	if err != nil {
		return fmt.Errorf("save quote file: %w", err)
	}
	return storage.WriteFile(path, data)
}
