/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := console
	console = &buf
	t.Cleanup(func() {
		console = prev
		_ = Close()
	})
	return &buf
}

// TestInitWritesJSONToFile verifies that the rotating file sink receives JSON
// records with the static and contextual attributes.
func TestInitWritesJSONToFile(t *testing.T) {
	withConsole(t)
	path := filepath.Join(t.TempDir(), "qg.log")
	Init(Options{Level: "debug", Format: "console", File: path})

	l := WithOperation(WithComponent("render"), "plan")
	l.Info("planned", slog.Int("lines", 3))
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", last, err)
	}
	for k, want := range map[string]any{"msg": "planned", "app": "quotegen", "component": "render", "op": "plan"} {
		if m[k] != want {
			t.Fatalf("%s = %v, want %v (record %v)", k, m[k], want, m)
		}
	}
	if m["lines"] != float64(3) {
		t.Fatalf("lines = %v", m["lines"])
	}
}

func TestConsoleLevelFiltering(t *testing.T) {
	buf := withConsole(t)
	Init(Options{Level: "warn"})

	L().Info("hidden")
	L().Warn("shown", slog.String("file", "quote.png"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "WRN shown") || !strings.Contains(out, "file=quote.png") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestContextOperationIsAttached(t *testing.T) {
	buf := withConsole(t)
	Init(Options{Level: "info", Format: "json"})

	ctx := ContextWithOperation(context.Background(), "export")
	L().InfoContext(ctx, "done")

	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, buf.String())
	}
	if m["op"] != "export" {
		t.Fatalf("op = %v", m["op"])
	}
}
