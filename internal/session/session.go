/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session holds the state of the interactive host shell: the
// current quote, the current background and the latest rendered frame.
//
// Every change replaces the quote spec or background wholesale and renders a
// new frame synchronously, so the frame always reflects the latest inputs.
// A Session is owned by one goroutine (the UI event loop) and is not safe
// for concurrent use.
package session

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"quotegen/internal/background"
	"quotegen/internal/compose"
	"quotegen/internal/domain"
	"quotegen/internal/export"
	applog "quotegen/internal/log"
	"quotegen/internal/storage"
	"quotegen/internal/textlayout"
)

var (
	// ErrNoImage is returned when rendering is requested before an image
	// has been decoded.
	ErrNoImage = errors.New("no image loaded")
	// ErrExportDisabled is returned by Export while the presence check fails.
	ErrExportDisabled = errors.New("export disabled: image and quote text required")
)

// Frame is the result of one planning and rendering pass.
type Frame struct {
	Spec   domain.QuoteSpec
	Target domain.CanvasTarget
	Plan   textlayout.FitPlan
	Scene  compose.Scene
	Image  *image.RGBA
}

// Stats summarizes the frame without any user text, for logs and usage
// events.
func (f Frame) Stats() map[string]any {
	return map[string]any{
		"width":       f.Target.Width,
		"height":      f.Target.Height,
		"lines":       len(f.Plan.Lines),
		"font_px":     f.Plan.FontSizePx,
		"truncated":   f.Plan.Truncated,
		"attribution": f.Spec.HasAttribution(),
		"watermark":   f.Spec.HasWatermark(),
	}
}

// Session is the single-owner state of the host shell.
type Session struct {
	spec     domain.QuoteSpec
	bg       *background.Image
	frame    *Frame
	planner  textlayout.Planner
	renderer *export.Renderer
	log      *slog.Logger

	// OnFrame is called after every successful render.
	OnFrame func(Frame)
}

// New returns a session rendering with the fonts of lib (nil means the
// builtin Go fonts).
func New(lib *textlayout.FontLibrary) *Session {
	r := export.NewRenderer(lib)
	m := textlayout.FaceMeasurer{Provider: textlayout.OTProvider{Lib: r.Fonts}}
	return &Session{
		planner:  textlayout.NewPlanner(m),
		renderer: r,
		log:      applog.WithComponent("session"),
	}
}

// Spec returns the current quote spec.
func (s *Session) Spec() domain.QuoteSpec { return s.spec }

// Background returns the current background, if any.
func (s *Session) Background() (background.Image, bool) {
	if s.bg == nil {
		return background.Image{}, false
	}
	return *s.bg, true
}

// Frame returns the latest rendered frame, if an image is loaded.
func (s *Session) Frame() (Frame, bool) {
	if s.frame == nil {
		return Frame{}, false
	}
	return *s.frame, true
}

// SetSpec replaces the whole quote spec and re-renders.
func (s *Session) SetSpec(q domain.QuoteSpec) {
	s.spec = q
	s.rerender()
}

// SetQuote replaces the quote text and re-renders.
func (s *Session) SetQuote(text string) {
	q := s.spec
	q.Text = text
	s.SetSpec(q)
}

// SetAttribution replaces the attribution and re-renders.
func (s *Session) SetAttribution(text string) {
	q := s.spec
	q.Attribution = text
	s.SetSpec(q)
}

// SetWatermark replaces the watermark and re-renders.
func (s *Session) SetWatermark(text string) {
	q := s.spec
	q.Watermark = text
	s.SetSpec(q)
}

// LoadImage decodes r and makes it the background. On failure the previous
// background and frame stay in place.
func (s *Session) LoadImage(r io.Reader) error {
	img, err := background.Decode(r)
	if err != nil {
		s.log.Warn("image rejected", slog.Any("err", err))
		return err
	}
	s.SetBackground(img)
	return nil
}

// SetBackground replaces the background; the canvas takes its natural size.
func (s *Session) SetBackground(img background.Image) {
	s.bg = &img
	s.log.Info("image loaded", slog.String("format", img.Format), slog.String("size", img.Target().String()))
	s.rerender()
}

// Render plans and rasterizes the current inputs.
func (s *Session) Render() (Frame, error) {
	if s.bg == nil {
		return Frame{}, ErrNoImage
	}
	target := s.bg.Target()
	plan := s.planner.Plan(s.spec.Text, s.spec.Attribution, target.Width, target.Height)
	sc := compose.Build(target, plan, s.spec, s.bg.Bitmap)
	f := Frame{Spec: s.spec, Target: target, Plan: plan, Scene: sc, Image: s.renderer.Rasterize(sc)}
	s.frame = &f
	s.log.Debug("frame rendered",
		slog.String("size", target.String()),
		slog.Int("lines", len(plan.Lines)),
		slog.Int("font_px", plan.FontSizePx),
		slog.Bool("truncated", plan.Truncated))
	if s.OnFrame != nil {
		s.OnFrame(f)
	}
	return f, nil
}

func (s *Session) rerender() {
	if s.bg == nil {
		return
	}
	_, _ = s.Render()
}

// CanExport reports whether an image is loaded and the quote has text.
func (s *Session) CanExport() bool { return s.bg != nil && s.spec.HasText() }

// Export writes the current frame in format f. The PNG is the exact
// raster of the frame.
func (s *Session) Export(w io.Writer, f export.Format) error {
	if !s.CanExport() || s.frame == nil {
		return ErrExportDisabled
	}
	var err error
	if f == export.FormatPNG || f == "" {
		err = export.EncodePNG(w, s.frame.Image)
	} else {
		err = s.renderer.Write(w, s.frame.Scene, f)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ExportFile atomically writes the current frame to path in format f. An
// empty f is inferred from the extension of path.
func (s *Session) ExportFile(path string, f export.Format) error {
	if !s.CanExport() || s.frame == nil {
		return ErrExportDisabled
	}
	if f == "" {
		var err error
		if f, err = export.FormatForPath(path); err != nil {
			return err
		}
	}
	if err := storage.WriteWith(path, func(w io.Writer) error { return s.Export(w, f) }); err != nil {
		return err
	}
	s.log.Info("exported", slog.String("path", path), slog.String("format", string(f)))
	return nil
}
