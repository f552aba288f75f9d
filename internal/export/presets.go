/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export executes composed scenes: PNG rasters, the primary output,
// plus PDF and SVG renditions of the same scene.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"quotegen/internal/compose"
	"quotegen/internal/textlayout"
)

// Format is an output file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// DefaultFileName is the name offered for downloads.
const DefaultFileName = "quote.png"

// ErrUnknownFormat is returned for formats and presets that are not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats, primary first.
func Formats() []Format { return []Format{FormatPNG, FormatPDF, FormatSVG} }

// ParseFormat accepts a format name or a file extension (".png").
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath infers the format from the file extension of path.
func FormatForPath(path string) (Format, error) { return ParseFormat(filepath.Ext(path)) }

// PresetFormat maps a preset to its output format.
func PresetFormat(p PresetName) (Format, error) {
	switch PresetName(strings.ToLower(string(p))) {
	case PresetWeb:
		return FormatPNG, nil
	case PresetPrint:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: preset %q", ErrUnknownFormat, p)
	}
}

// FileName returns the default download name for f.
func FileName(f Format) string {
	if f == "" || f == FormatPNG {
		return DefaultFileName
	}
	return "quote." + string(f)
}

// Selection is what a user asked for; empty fields are unset.
type Selection struct {
	Format string // png | pdf | svg
	Preset string // web | print
	Path   string
}

// Resolve decides format and path of an export from an explicit selection
// and configured defaults. In sel an explicit format beats the preset, which
// beats the extension of sel.Path. Without any of those the configured preset
// beats the configured format, because the format always carries a default.
// The configured path is used only when its extension matches the format.
func Resolve(sel, cfg Selection) (Format, string, error) {
	var (
		f   Format
		err error
	)
	switch {
	case sel.Format != "":
		f, err = ParseFormat(sel.Format)
	case sel.Preset != "":
		f, err = PresetFormat(PresetName(sel.Preset))
	case sel.Path != "":
		f, err = FormatForPath(sel.Path)
	case cfg.Preset != "":
		f, err = PresetFormat(PresetName(cfg.Preset))
	case cfg.Format != "":
		f, err = ParseFormat(cfg.Format)
	default:
		f = FormatPNG
	}
	if err != nil {
		return "", "", err
	}
	path := sel.Path
	if path == "" {
		path = cfg.Path
		if ext, eerr := FormatForPath(path); path == "" || eerr != nil || ext != f {
			path = FileName(f)
		}
	}
	return f, path, nil
}

// Renderer draws scenes with the fonts of a FontLibrary. Fonts missing from
// the library fall back to basicfont for rasters and to core PDF fonts.
type Renderer struct {
	Fonts *textlayout.FontLibrary
}

// NewRenderer returns a renderer over lib; nil means the builtin Go fonts.
func NewRenderer(lib *textlayout.FontLibrary) *Renderer {
	if lib == nil {
		lib = textlayout.BuiltinLibrary()
	}
	return &Renderer{Fonts: lib}
}

func (r *Renderer) provider() textlayout.Provider { return textlayout.OTProvider{Lib: r.Fonts} }

// Write renders sc to w in format f.
func (r *Renderer) Write(w io.Writer, sc compose.Scene, f Format) error {
	switch f {
	case FormatPNG, "":
		return r.PNG(w, sc)
	case FormatPDF:
		return r.PDF(w, sc)
	case FormatSVG:
		return r.SVG(w, sc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
