/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily is the family registered by BuiltinLibrary.
const DefaultFamily = "Go"

// FontLibrary stores parsed OpenType fonts by family, weight and slant and
// caches the faces created from them. It is safe for concurrent use.
type FontLibrary struct {
	mu    sync.Mutex
	fonts map[fontKey]loadedFont
	faces map[faceKey]faceEntry
}

type loadedFont struct {
	font *opentype.Font
	data []byte
}

// FontFile is the raw font data registered for a family, weight and slant.
// Vector exporters embed it.
type FontFile struct {
	Family string
	Weight int
	Italic bool
	Data   []byte
}

type fontKey struct {
	family string
	weight int
	italic bool
}

type faceKey struct {
	fontKey
	size float64
	dpi  float64
}

type faceEntry struct {
	face    font.Face
	metrics Metrics
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[fontKey]loadedFont), faces: make(map[faceKey]faceEntry)}
}

// BuiltinLibrary returns a library holding the Go font family in regular,
// bold, italic and bold italic under DefaultFamily.
func BuiltinLibrary() *FontLibrary {
	fl := NewFontLibrary()
	for _, f := range []struct {
		weight int
		italic bool
		data   []byte
	}{
		{400, false, goregular.TTF},
		{700, false, gobold.TTF},
		{400, true, goitalic.TTF},
		{700, true, gobolditalic.TTF},
	} {
		if err := fl.LoadBytes(DefaultFamily, f.weight, f.italic, f.data); err != nil {
			panic(fmt.Sprintf("builtin font: %v", err))
		}
	}
	return fl
}

// LoadTTF loads a TTF/OTF file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.LoadBytes(family, weight, italic, data); err != nil {
		return fmt.Errorf("font %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses data and registers it, replacing any font with the same
// key and dropping faces cached for it.
func (fl *FontLibrary) LoadBytes(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	k := fontKey{family: family, weight: weight, italic: italic}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]loadedFont)
	}
	fl.fonts[k] = loadedFont{font: f, data: data}
	for fk, e := range fl.faces {
		if fk.fontKey == k {
			_ = e.face.Close()
			delete(fl.faces, fk)
		}
	}
	return nil
}

// Families lists the registered family names in sorted order.
func (fl *FontLibrary) Families() []string {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for k := range fl.fonts {
		if !seen[k.family] {
			seen[k.family] = true
			out = append(out, k.family)
		}
	}
	sort.Strings(out)
	return out
}

// find picks the exact font for spec, else the same family and slant with
// the nearest weight, else any font of the family. The caller holds mu.
func (fl *FontLibrary) find(spec FontSpec) (fontKey, *loadedFont) {
	want := fontKey{family: spec.Family, weight: spec.Weight, italic: spec.Italic}
	if f, ok := fl.fonts[want]; ok {
		return want, &f
	}
	var (
		bestKey  fontKey
		best     *loadedFont
		bestCost = math.MaxInt
	)
	for k, f := range fl.fonts {
		if k.family != spec.Family {
			continue
		}
		cost := abs(k.weight - spec.Weight)
		if k.italic != spec.Italic {
			cost += 1000
		}
		if cost < bestCost || (cost == bestCost && k.weight < bestKey.weight) {
			bestKey, best, bestCost = k, &f, cost
		}
	}
	return bestKey, best
}

func (fl *FontLibrary) face(spec FontSpec, dpi float64) (font.Face, Metrics, bool) {
	if fl == nil {
		return nil, Metrics{}, false
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	k, f := fl.find(spec)
	if f == nil {
		return nil, Metrics{}, false
	}
	ck := faceKey{fontKey: k, size: spec.SizePx, dpi: dpi}
	if e, ok := fl.faces[ck]; ok {
		return e.face, e.metrics, true
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: spec.SizePx, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, Metrics{}, false
	}
	if fl.faces == nil {
		fl.faces = make(map[faceKey]faceEntry)
	}
	e := faceEntry{face: face, metrics: metricsOf(face)}
	fl.faces[ck] = e
	return e.face, e.metrics, true
}

// File returns the font data that Resolve would use for spec.
func (fl *FontLibrary) File(spec FontSpec) (FontFile, bool) {
	if fl == nil {
		return FontFile{}, false
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	k, f := fl.find(spec)
	if f == nil {
		return FontFile{}, false
	}
	return FontFile{Family: k.family, Weight: k.weight, Italic: k.italic, Data: f.data}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
// At the default 72 DPI one point equals one pixel, so FontSpec.SizePx maps
// straight onto the face size.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePx <= 0 {
		spec.SizePx = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if face, m, ok := p.Lib.face(spec, dpi); ok {
		return face, m
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
