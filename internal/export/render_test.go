/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"quotegen/internal/compose"
	"quotegen/internal/domain"
	"quotegen/internal/textlayout"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func scene(spec domain.QuoteSpec, w, h int) compose.Scene {
	target := domain.CanvasTarget{Width: w, Height: h}
	m := textlayout.FaceMeasurer{Provider: textlayout.OTProvider{Lib: textlayout.BuiltinLibrary()}}
	plan := textlayout.NewPlanner(m).Plan(spec.Text, spec.Attribution, w, h)
	return compose.Build(target, plan, spec, solid(w, h, color.RGBA{R: 255, A: 255}))
}

func TestRasterizeSizeAndBackground(t *testing.T) {
	r := NewRenderer(nil)
	img := r.Rasterize(scene(domain.QuoteSpec{}, 240, 160))
	if img.Bounds() != image.Rect(0, 0, 240, 160) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	c := img.RGBAAt(5, 5)
	if c.A < 120 || c.A > 135 || c.R != c.A || c.G != 0 {
		t.Fatalf("dimmed background pixel = %v", c)
	}
}

func TestRasterizeDrawsBackingAndText(t *testing.T) {
	r := NewRenderer(nil)
	spec := domain.QuoteSpec{Text: "Stay hungry, stay foolish", Attribution: "Steve Jobs"}
	sc := scene(spec, 500, 500)
	img := r.Rasterize(sc)

	back, ok := sc.Backing()
	if !ok {
		t.Fatalf("backing missing")
	}
	// Left edge of the band is outside the centered text.
	edge := img.RGBAAt(int(back.Rect.X)+3, int(back.Rect.Y)+3)
	if edge.A < 220 || edge.G < 190 {
		t.Fatalf("backing pixel = %v", edge)
	}

	dark := 0
	for y := int(back.Rect.Y); y < int(back.Rect.MaxY()); y++ {
		for x := int(back.Rect.X); x < int(back.Rect.MaxX()); x++ {
			if c := img.RGBAAt(x, y); c.G < 100 && c.A > 200 {
				dark++
			}
		}
	}
	if dark < 200 {
		t.Fatalf("expected glyph pixels inside the band, found %d", dark)
	}
}

func TestRasterizeWatermarkCorner(t *testing.T) {
	r := NewRenderer(nil)
	without := r.Rasterize(scene(domain.QuoteSpec{}, 300, 200))
	with := r.Rasterize(scene(domain.QuoteSpec{Watermark: "© 2024"}, 300, 200))

	changed := func(x0, y0, x1, y1 int) int {
		n := 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if without.RGBAAt(x, y) != with.RGBAAt(x, y) {
					n++
				}
			}
		}
		return n
	}
	if changed(200, 170, 288, 190) == 0 {
		t.Fatalf("watermark not drawn near the bottom right anchor")
	}
	if changed(0, 0, 300, 150) != 0 {
		t.Fatalf("watermark leaked outside its corner")
	}
	if changed(289, 0, 300, 200) != 0 || changed(0, 191, 300, 200) != 0 {
		t.Fatalf("watermark crosses its margins")
	}
}

func TestPNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(nil).PNG(&buf, scene(domain.QuoteSpec{Text: "Hi"}, 120, 90)); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 90 {
		t.Fatalf("decoded size = %v", img.Bounds())
	}
}

func TestPDF(t *testing.T) {
	for name, r := range map[string]*Renderer{
		"embedded": NewRenderer(nil),
		"core":     {Fonts: textlayout.NewFontLibrary()},
	} {
		var buf bytes.Buffer
		spec := domain.QuoteSpec{Text: strings.Repeat("Simplicity is the ultimate sophistication. ", 8), Attribution: "Leonardo", Watermark: "@quotes"}
		if err := r.PDF(&buf, scene(spec, 400, 300)); err != nil {
			t.Fatalf("%s: PDF: %v", name, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Fatalf("%s: not a PDF: %q", name, buf.Bytes()[:min(16, buf.Len())])
		}
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	spec := domain.QuoteSpec{Text: "Less is more", Attribution: "Mies", Watermark: "@quotes"}
	if err := NewRenderer(nil).SVG(&buf, scene(spec, 320, 240)); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "image/png") {
		t.Fatalf("unexpected svg output: %.200s", out)
	}
}
