/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config path at a fresh temp file and clears overrides
// that might leak in from the developer's shell.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)
	for _, name := range envKeys {
		t.Setenv(name, "")
	}
	return path
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Export.FileName != "quote.png" || cfg.Export.Format != "png" || cfg.UI.PreviewMax != 350 {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Export.Format = "pdf"
	cfg.Fonts.Bold = "/fonts/Bold.ttf"
	cfg.UI.PreviewMax = 500
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Export.Format != "pdf" || got.Fonts.Bold != "/fonts/Bold.ttf" || got.UI.PreviewMax != 500 {
		t.Fatalf("round trip lost fields: %#v", got)
	}
}

func TestLoadMalformedFileKeepsDefaults(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("export: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Export.FileName != "quote.png" {
		t.Fatalf("defaults not returned alongside error: %#v", cfg.Export)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Logging: LoggingConfig{Level: "DEBUG", Format: "json", Source: true, File: "/tmp/qg.log"}}
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/qg.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	if dst.Export.FileName != "quote.png" {
		t.Fatalf("empty file fields must not clear defaults: %#v", dst.Export)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvExportFormat, "SVG")
	t.Setenv(EnvExportFileName, "out.svg")
	t.Setenv(EnvFontItalic, "/fonts/Italic.otf")
	t.Setenv(EnvPreviewMax, "420")
	t.Setenv(EnvLogSource, "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Export.Format != "svg" || cfg.Export.FileName != "out.svg" {
		t.Fatalf("export overrides not applied: %#v", cfg.Export)
	}
	if cfg.Fonts.Italic != "/fonts/Italic.otf" || cfg.UI.PreviewMax != 420 || !cfg.Logging.Source {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	isolate(t)
	if _, ok := EnvOverrideFor("export.format"); ok {
		t.Fatalf("no override expected")
	}
	t.Setenv(EnvExportFormat, "pdf")
	if name, ok := EnvOverrideFor("export.format"); !ok || name != EnvExportFormat {
		t.Fatalf("EnvOverrideFor = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("unknown.key"); ok {
		t.Fatalf("unknown key reported as overridden")
	}
}
