/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures, wraps and fits quote text into a canvas.
//
// Measurement goes through the Measurer interface so that the wrapping and
// fitting code stays pure: tests drive it with fixed-advance stubs, the
// renderers drive it with real OpenType faces.
package textlayout

import (
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font. Sizes are CSS-style pixels.
type FontSpec struct {
	Family string // logical family name
	SizePx float64
	Weight int // 100..900
	Italic bool
}

// WithSize returns a copy of s at the given pixel size.
func (s FontSpec) WithSize(px float64) FontSpec { s.SizePx = px; return s }

// Bold reports whether the weight falls in the bold range.
func (s FontSpec) Bold() bool { return s.Weight >= 600 }

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Measurer returns the advance width of text in pixels when set in spec.
type Measurer interface {
	Measure(text string, spec FontSpec) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(text string, spec FontSpec) float64

func (f MeasureFunc) Measure(text string, spec FontSpec) float64 { return f(text, spec) }

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// The requested size is ignored.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

// FaceMeasurer measures with the faces of a Provider, kerning included.
type FaceMeasurer struct{ Provider Provider }

func (m FaceMeasurer) Measure(text string, spec FontSpec) float64 {
	p := m.Provider
	if p == nil {
		p = BasicProvider{}
	}
	face, _ := p.Resolve(spec)
	return fromFixed(font.MeasureString(face, text))
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	asc, desc := fromFixed(m.Ascent), fromFixed(m.Descent)
	gap := fromFixed(m.Height) - asc - desc
	if gap < 0 {
		gap = 0
	}
	return Metrics{Ascent: asc, Descent: desc, LineGap: gap}
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Wrap breaks text into lines no wider than maxWidth using greedy word
// accumulation. Words are separated by any whitespace and joined with a
// single space. A word wider than maxWidth is never split; it ends up alone
// on its line. Empty or whitespace-only text yields no lines.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 4)
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// Ellipsis is appended to truncated lines.
const Ellipsis = "…"

// Ellipsize strips trailing characters from line until line+Ellipsis fits
// maxWidth (or nothing is left), then appends Ellipsis. Whitespace exposed
// at the cut is dropped as well.
func Ellipsize(line string, maxWidth float64, measure func(string) float64) string {
	r := []rune(line)
	for len(r) > 0 && measure(string(r)+Ellipsis) > maxWidth {
		r = r[:len(r)-1]
	}
	return strings.TrimRightFunc(string(r), unicode.IsSpace) + Ellipsis
}
