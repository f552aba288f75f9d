/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": FormatPNG, ".PDF": FormatPDF, " svg ": FormatSVG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("jpeg"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestPresetFormat(t *testing.T) {
	if f, err := PresetFormat(PresetWeb); err != nil || f != FormatPNG {
		t.Fatalf("web = %q, %v", f, err)
	}
	if f, err := PresetFormat("PRINT"); err != nil || f != FormatPDF {
		t.Fatalf("print = %q, %v", f, err)
	}
	if _, err := PresetFormat("poster"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	if FileName(FormatPNG) != "quote.png" || FileName("") != DefaultFileName || FileName(FormatSVG) != "quote.svg" {
		t.Fatalf("unexpected file names")
	}
}

func TestResolve(t *testing.T) {
	cfg := Selection{Format: "png", Path: "quote.png"}
	cases := []struct {
		name     string
		sel, cfg Selection
		wantF    Format
		wantPath string
	}{
		{"defaults", Selection{}, cfg, FormatPNG, "quote.png"},
		{"explicit format", Selection{Format: "svg"}, cfg, FormatSVG, "quote.svg"},
		{"preset flag", Selection{Preset: "print"}, cfg, FormatPDF, "quote.pdf"},
		{"path extension", Selection{Path: "x/card.pdf"}, cfg, FormatPDF, "x/card.pdf"},
		{"format beats preset", Selection{Format: "png", Preset: "print", Path: "a.png"}, cfg, FormatPNG, "a.png"},
		{"configured preset", Selection{}, Selection{Format: "png", Preset: "print", Path: "quote.png"}, FormatPDF, "quote.pdf"},
		{"configured name kept", Selection{}, Selection{Format: "png", Preset: "print", Path: "card.pdf"}, FormatPDF, "card.pdf"},
		{"flag beats configured preset", Selection{Format: "svg"}, Selection{Preset: "print"}, FormatSVG, "quote.svg"},
		{"empty config", Selection{}, Selection{}, FormatPNG, DefaultFileName},
	}
	for _, c := range cases {
		f, p, err := Resolve(c.sel, c.cfg)
		if err != nil || f != c.wantF || p != c.wantPath {
			t.Errorf("%s: Resolve = %q, %q, %v; want %q, %q", c.name, f, p, err, c.wantF, c.wantPath)
		}
	}
	if _, _, err := Resolve(Selection{}, Selection{Preset: "poster"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown configured preset: err = %v", err)
	}
}
