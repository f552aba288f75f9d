/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain holds the data model shared by layout, composition and the
// host shells.
package domain

import (
	"fmt"
	"image/color"
	"strings"
)

// QuoteSpec is the user's current input. A render pass treats it as
// immutable; the shell replaces it wholesale on every edit.
type QuoteSpec struct {
	Text        string `json:"quote"`
	Attribution string `json:"attribution,omitempty"`
	Watermark   string `json:"watermark,omitempty"`
}

// HasText reports whether the quote has visible content. Whitespace-only
// input counts as empty.
func (q QuoteSpec) HasText() bool { return strings.TrimSpace(q.Text) != "" }

// HasAttribution reports whether an attribution line is rendered.
func (q QuoteSpec) HasAttribution() bool { return strings.TrimSpace(q.Attribution) != "" }

// HasWatermark reports whether a watermark is rendered.
func (q QuoteSpec) HasWatermark() bool { return strings.TrimSpace(q.Watermark) != "" }

// CanvasTarget is the output raster size in pixels. It always equals the
// natural size of the background image.
type CanvasTarget struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (c CanvasTarget) Valid() bool { return c.Width > 0 && c.Height > 0 }

func (c CanvasTarget) String() string { return fmt.Sprintf("%dx%d", c.Width, c.Height) }

// Color is a straight (non-premultiplied) RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Hex parses "#rgb" or "#rrggbb" into an opaque Color.
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("parse color %q: want #rgb or #rrggbb", s)
	}
	return Color{R: r, G: g, B: b, A: 255}, nil
}

// MustHex is Hex for package-level constants.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a (0..1), clamped.
func (c Color) WithAlpha(a float64) Color {
	switch {
	case a <= 0:
		c.A = 0
	case a >= 1:
		c.A = 255
	default:
		c.A = uint8(a*255 + 0.5)
	}
	return c
}

// NRGBA converts c for use with image/draw.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// Hex formats c as "#rrggbb" (alpha is dropped).
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }
