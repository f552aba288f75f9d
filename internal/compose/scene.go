/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose turns a FitPlan and a QuoteSpec into an ordered list of
// drawing operations. It makes no layout decisions of its own and draws
// nothing; the export package executes a Scene on a concrete surface.
package compose

import (
	"image"

	"quotegen/internal/domain"
	"quotegen/internal/textlayout"
)

// Composition constants in canvas pixels or as fractions of the canvas.
const (
	BackgroundAlpha = 0.5
	BackingAlpha    = 0.8
	BandLeft        = 0.1 // backing band spans [BandLeft, 1-BandLeft] of the width
	BackingLead     = 0.6 // backing starts this many font sizes above the block
	WatermarkRight  = 12
	WatermarkBottom = 10
	AttributionDash = "— "
)

// Backing is the fill of the readability band.
var Backing = domain.MustHex("#fff")

// Align is the horizontal anchor of a text op.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Baseline is the vertical anchor of a text op.
type Baseline int

const (
	BaselineAlphabetic Baseline = iota
	BaselineMiddle              // Y is the middle of the em box
	BaselineBottom              // Y is the bottom of the descender
)

// Text roles.
const (
	RoleQuote       = "quote"
	RoleAttribution = "attribution"
	RoleWatermark   = "watermark"
)

// Op is one drawing operation. The set of ops is closed.
type Op interface{ isOp() }

// ImageOp draws Image scaled to Dst at the given opacity.
type ImageOp struct {
	Image image.Image
	Dst   domain.Rect
	Alpha float64
}

// RectOp fills Rect.
type RectOp struct {
	Rect  domain.Rect
	Fill  domain.Color
	Alpha float64
}

// TextOp draws a single line of text anchored at (X, Y).
type TextOp struct {
	Role     string
	Text     string
	Font     textlayout.FontSpec
	X, Y     float64
	Align    Align
	Baseline Baseline
	Color    domain.Color
	Alpha    float64
}

func (ImageOp) isOp() {}
func (RectOp) isOp()  {}
func (TextOp) isOp()  {}

// Origin converts the anchor to the pen position of the first glyph given
// the advance width of Text and the metrics of its face.
func (t TextOp) Origin(advance float64, m textlayout.Metrics) (x, baseline float64) {
	switch t.Align {
	case AlignCenter:
		x = t.X - advance/2
	case AlignRight:
		x = t.X - advance
	default:
		x = t.X
	}
	switch t.Baseline {
	case BaselineMiddle:
		baseline = t.Y + (m.Ascent-m.Descent)/2
	case BaselineBottom:
		baseline = t.Y - m.Descent
	default:
		baseline = t.Y
	}
	return x, baseline
}

// Scene is the full drawing sequence of one render pass, in paint order.
type Scene struct {
	Target domain.CanvasTarget
	Ops    []Op
}

// Texts returns the text ops with the given role in paint order.
func (s Scene) Texts(role string) []TextOp {
	var out []TextOp
	for _, op := range s.Ops {
		if t, ok := op.(TextOp); ok && t.Role == role {
			out = append(out, t)
		}
	}
	return out
}

// Backing returns the readability band, if the scene has one.
func (s Scene) Backing() (RectOp, bool) {
	for _, op := range s.Ops {
		if r, ok := op.(RectOp); ok {
			return r, true
		}
	}
	return RectOp{}, false
}

// Build lays out the scene for target:
//
//	background at half opacity, scaled to fill
//	white band behind the text block (only with quote lines)
//	quote lines, bold, centered, one per line height
//	attribution, italic, under the lines (only with quote lines)
//	watermark, bottom right (whenever one is set)
func Build(target domain.CanvasTarget, plan textlayout.FitPlan, spec domain.QuoteSpec, bg image.Image) Scene {
	w, h := float64(target.Width), float64(target.Height)
	sc := Scene{Target: target, Ops: make([]Op, 0, len(plan.Lines)+4)}

	if bg != nil {
		sc.Ops = append(sc.Ops, ImageOp{Image: bg, Dst: domain.Rect{Width: w, Height: h}, Alpha: BackgroundAlpha})
	}

	if !plan.Empty() {
		fs := float64(plan.FontSizePx)
		lh := plan.LineHeight()
		sc.Ops = append(sc.Ops, RectOp{
			Rect: domain.Rect{
				X:      w * BandLeft,
				Y:      plan.BlockTopY - fs*BackingLead,
				Width:  w * (1 - 2*BandLeft),
				Height: plan.TextHeight() + lh + plan.QuoterBlockHeight,
			},
			Fill:  Backing,
			Alpha: BackingAlpha,
		})

		quote := textlayout.MustStyle(textlayout.StyleQuote)
		for i, line := range plan.Lines {
			sc.Ops = append(sc.Ops, TextOp{
				Role:     RoleQuote,
				Text:     line,
				Font:     quote.Font.WithSize(fs),
				X:        w / 2,
				Y:        plan.BlockTopY + float64(i)*lh + fs/2,
				Align:    AlignCenter,
				Baseline: BaselineMiddle,
				Color:    quote.Color,
				Alpha:    quote.Alpha,
			})
		}

		if spec.HasAttribution() {
			attr := textlayout.MustStyle(textlayout.StyleAttribution)
			sc.Ops = append(sc.Ops, TextOp{
				Role:     RoleAttribution,
				Text:     AttributionDash + spec.Attribution,
				Font:     attr.Font.WithSize(plan.QuoterFontSizePx),
				X:        w / 2,
				Y:        plan.BlockTopY + plan.TextHeight() + plan.QuoterFontSizePx,
				Align:    AlignCenter,
				Baseline: BaselineMiddle,
				Color:    attr.Color,
				Alpha:    attr.Alpha,
			})
		}
	}

	if spec.HasWatermark() {
		wm := textlayout.MustStyle(textlayout.StyleWatermark)
		sc.Ops = append(sc.Ops, TextOp{
			Role:     RoleWatermark,
			Text:     spec.Watermark,
			Font:     wm.Font,
			X:        w - WatermarkRight,
			Y:        h - WatermarkBottom,
			Align:    AlignRight,
			Baseline: BaselineBottom,
			Color:    wm.Color,
			Alpha:    wm.Alpha,
		})
	}
	return sc
}
