/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"quotegen/internal/compose"
	"quotegen/internal/domain"
	"quotegen/internal/textlayout"
)

// mmPerPx converts CSS pixels to the millimetres canvas works in.
const mmPerPx = 25.4 / 96

// SVG writes sc as an SVG document of the canvas size with embedded fonts.
// The background is embedded as the same dimmed raster the PNG uses.
func (r *Renderer) SVG(w io.Writer, sc compose.Scene) error {
	cw, ch := float64(sc.Target.Width)*mmPerPx, float64(sc.Target.Height)*mmPerPx
	c := canvas.New(cw, ch)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	families := map[svgFamilyKey]*canvas.FontFamily{}
	for _, op := range sc.Ops {
		switch o := op.(type) {
		case compose.ImageOp:
			bg := dimmed(o)
			dpmm := float64(bg.Bounds().Dx()) / (o.Dst.Width * mmPerPx)
			ctx.DrawImage(o.Dst.X*mmPerPx, o.Dst.Y*mmPerPx, bg, canvas.DPMM(dpmm))
		case compose.RectOp:
			ctx.SetFillColor(canvasColor(o.Fill, o.Alpha))
			ctx.SetStrokeColor(color.RGBA{})
			ctx.DrawPath(o.Rect.X*mmPerPx, o.Rect.Y*mmPerPx, canvas.Rectangle(o.Rect.Width*mmPerPx, o.Rect.Height*mmPerPx))
		case compose.TextOp:
			face, err := r.canvasFace(families, o)
			if err != nil {
				return err
			}
			gf, m := r.provider().Resolve(o.Font)
			x, baseline := o.Origin(advance(gf, o.Text), m)
			ctx.DrawText(x*mmPerPx, baseline*mmPerPx, canvas.NewTextLine(face, o.Text, canvas.Left))
		}
	}

	out := svg.New(w, cw, ch, nil)
	c.RenderTo(out)
	if err := out.Close(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

type svgFamilyKey struct {
	family string
	weight int
	italic bool
}

func (r *Renderer) canvasFace(families map[svgFamilyKey]*canvas.FontFamily, op compose.TextOp) (*canvas.FontFace, error) {
	ff, ok := r.Fonts.File(op.Font)
	if !ok {
		fallback := op.Font
		fallback.Family = textlayout.DefaultFamily
		if ff, ok = textlayout.BuiltinLibrary().File(fallback); !ok {
			return nil, fmt.Errorf("no font for %q", op.Font.Family)
		}
	}
	style := canvas.FontRegular
	if ff.Weight >= 600 {
		style = canvas.FontBold
	}
	if ff.Italic {
		style |= canvas.FontItalic
	}
	key := svgFamilyKey{family: ff.Family, weight: ff.Weight, italic: ff.Italic}
	fam, seen := families[key]
	if !seen {
		fam = canvas.NewFontFamily(fmt.Sprintf("%s-%d", ff.Family, len(families)))
		if err := fam.LoadFont(ff.Data, 0, style); err != nil {
			return nil, fmt.Errorf("load font %s: %w", ff.Family, err)
		}
		families[key] = fam
	}
	return fam.Face(op.Font.SizePx*pxToPt, canvasColor(op.Color, op.Alpha), style, canvas.FontNormal), nil
}

func canvasColor(c domain.Color, alpha float64) color.Color {
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}
