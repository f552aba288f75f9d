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
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"quotegen/internal/compose"
	"quotegen/internal/domain"
	"quotegen/internal/textlayout"
	"quotegen/internal/version"
)

// pxToPt maps CSS pixels (96 per inch) to PDF points (72 per inch).
const pxToPt = 72.0 / 96.0

// PDF writes sc as a single page sized to the canvas. Text stays vector
// with the library fonts embedded; the dimmed background is embedded as a
// PNG with alpha.
func (r *Renderer) PDF(w io.Writer, sc compose.Scene) error {
	pw, ph := float64(sc.Target.Width)*pxToPt, float64(sc.Target.Height)*pxToPt
	size := gofpdf.SizeType{Wd: pw, Ht: ph}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: size})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("quotegen "+version.Version, true)
	pdf.SetTitle("Quote", true)
	pdf.AddPageFormat("P", size)

	fonts := pdfFonts{pdf: pdf, lib: r.Fonts, names: map[pdfFontKey]string{}}
	images := 0
	for _, op := range sc.Ops {
		switch o := op.(type) {
		case compose.ImageOp:
			var buf bytes.Buffer
			if err := png.Encode(&buf, dimmed(o)); err != nil {
				return fmt.Errorf("encode background: %w", err)
			}
			name := fmt.Sprintf("bg%d", images)
			images++
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, &buf)
			pdf.ImageOptions(name, o.Dst.X*pxToPt, o.Dst.Y*pxToPt, o.Dst.Width*pxToPt, o.Dst.Height*pxToPt, false, opts, 0, "")
		case compose.RectOp:
			setFillColor(pdf, o.Fill)
			pdf.SetAlpha(o.Alpha, "Normal")
			pdf.Rect(o.Rect.X*pxToPt, o.Rect.Y*pxToPt, o.Rect.Width*pxToPt, o.Rect.Height*pxToPt, "F")
			pdf.SetAlpha(1, "Normal")
		case compose.TextOp:
			face, m := r.provider().Resolve(o.Font)
			x, baseline := o.Origin(advance(face, o.Text), m)
			text := fonts.use(o.Font)
			pdf.SetTextColor(int(o.Color.R), int(o.Color.G), int(o.Color.B))
			pdf.SetAlpha(o.Alpha, "Normal")
			pdf.Text(x*pxToPt, baseline*pxToPt, text(o.Text))
			pdf.SetAlpha(1, "Normal")
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfFonts registers library fonts with the document on first use.
type pdfFonts struct {
	pdf   *gofpdf.Fpdf
	lib   *textlayout.FontLibrary
	names map[pdfFontKey]string
	tr    func(string) string
}

type pdfFontKey struct {
	family string
	weight int
	italic bool
}

// use selects the font for spec and returns the text encoder that goes with it.
func (f *pdfFonts) use(spec textlayout.FontSpec) func(string) string {
	size := spec.SizePx * pxToPt
	ff, ok := f.lib.File(spec)
	if !ok {
		if f.tr == nil {
			f.tr = f.pdf.UnicodeTranslatorFromDescriptor("")
		}
		f.pdf.SetFont("Helvetica", coreStyle(spec), size)
		return f.tr
	}
	key := pdfFontKey{family: ff.Family, weight: ff.Weight, italic: ff.Italic}
	name, seen := f.names[key]
	if !seen {
		name = fmt.Sprintf("qg%d", len(f.names))
		f.names[key] = name
		f.pdf.AddUTF8FontFromBytes(name, "", ff.Data)
	}
	f.pdf.SetFont(name, "", size)
	return func(s string) string { return s }
}

func coreStyle(spec textlayout.FontSpec) string {
	s := ""
	if spec.Bold() {
		s += "B"
	}
	if spec.Italic {
		s += "I"
	}
	return s
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
