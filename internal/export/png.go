/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"quotegen/internal/compose"
)

// Rasterize executes sc on a transparent RGBA canvas of the target size.
func (r *Renderer) Rasterize(sc compose.Scene) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, sc.Target.Width, sc.Target.Height))
	for _, op := range sc.Ops {
		switch o := op.(type) {
		case compose.ImageOp:
			bg := dimmed(o)
			at := image.Pt(round(o.Dst.X), round(o.Dst.Y))
			draw.Draw(dst, bg.Bounds().Add(at), bg, image.Point{}, draw.Over)
		case compose.RectOp:
			rect := image.Rect(round(o.Rect.X), round(o.Rect.Y), round(o.Rect.MaxX()), round(o.Rect.MaxY()))
			fill := image.NewUniform(o.Fill.WithAlpha(o.Alpha).NRGBA())
			draw.Draw(dst, rect.Intersect(dst.Bounds()), fill, image.Point{}, draw.Over)
		case compose.TextOp:
			r.drawText(dst, o)
		}
	}
	return dst
}

// PNG rasterizes sc and encodes it as PNG.
func (r *Renderer) PNG(w io.Writer, sc compose.Scene) error { return EncodePNG(w, r.Rasterize(sc)) }

// EncodePNG encodes an already rasterized frame.
func EncodePNG(w io.Writer, img image.Image) error {
	return (&png.Encoder{CompressionLevel: png.DefaultCompression}).Encode(w, img)
}

func (r *Renderer) drawText(dst draw.Image, op compose.TextOp) {
	face, m := r.provider().Resolve(op.Font)
	x, baseline := op.Origin(advance(face, op.Text), m)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(op.Color.WithAlpha(op.Alpha).NRGBA()),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(baseline * 64))},
	}
	d.DrawString(op.Text)
}

// dimmed scales the background to its destination size and applies the op
// opacity. The vector exporters embed the result as a raster.
func dimmed(op compose.ImageOp) *image.RGBA {
	w, h := max(1, round(op.Dst.Width)), max(1, round(op.Dst.Height))
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	if op.Image.Bounds().Dx() == w && op.Image.Bounds().Dy() == h {
		xdraw.Copy(scaled, image.Point{}, op.Image, op.Image.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), op.Image, op.Image.Bounds(), xdraw.Src, nil)
	}
	if op.Alpha >= 1 {
		return scaled
	}
	out := image.NewRGBA(scaled.Bounds())
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(math.Max(op.Alpha, 0) * 255))})
	draw.DrawMask(out, out.Bounds(), scaled, image.Point{}, mask, image.Point{}, draw.Over)
	return out
}

func advance(face font.Face, s string) float64 { return float64(font.MeasureString(face, s)) / 64 }

func round(v float64) int { return int(math.Round(v)) }
