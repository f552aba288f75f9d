/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package quotefile

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"quotegen/internal/domain"
)

func TestParseValid(t *testing.T) {
	q, err := Parse([]byte(`{"quote":"Stay hungry, stay foolish","attribution":"Steve Jobs","watermark":"© 2024"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := domain.QuoteSpec{Text: "Stay hungry, stay foolish", Attribution: "Steve Jobs", Watermark: "© 2024"}
	if q != want {
		t.Fatalf("got %+v, want %+v", q, want)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"missing quote":  `{"attribution":"x"}`,
		"blank quote":    `{"quote":"   "}`,
		"wrong type":     `{"quote":42}`,
		"unknown field":  `{"quote":"q","font":"Comic Sans"}`,
		"not an object":  `["quote"]`,
		"long watermark": `{"quote":"q","watermark":"` + strings.Repeat("w", 201) + `"}`,
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		var verr *ValidationError
		if !errors.As(err, &verr) || len(verr.Problems) == 0 {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"quote":`))
	if err == nil {
		t.Fatalf("expected error")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("malformed JSON should not be reported as schema violation: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q", "quote.json")
	in := domain.QuoteSpec{Text: "Less is more", Attribution: "Mies"}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	if err := Save(path, domain.QuoteSpec{}); err == nil {
		t.Fatalf("empty quote must not be saved")
	}
}

func TestSchemaIsValidDraft(t *testing.T) {
	if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(Schema())); err != nil {
		t.Fatalf("schema: %v", err)
	}
}
