//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"quotegen/internal/background"
	"quotegen/internal/crash"
	"quotegen/internal/domain"
	"quotegen/internal/export"
	applog "quotegen/internal/log"
	"quotegen/internal/quotefile"
	"quotegen/internal/session"
	"quotegen/internal/version"
)

// quoteForm holds the widgets of the main window. Every input change goes
// straight to the session, which renders a new frame synchronously.
type quoteForm struct {
	sess        *session.Session
	quote       *widget.Entry
	attribution *widget.Entry
	watermark   *widget.Entry
	choose      *widget.Button
	download    *widget.Button
	preview     *canvas.Image
	status      *widget.Label
}

func newQuoteForm(sess *session.Session, previewMax float32) *quoteForm {
	f := &quoteForm{
		sess:        sess,
		quote:       widget.NewMultiLineEntry(),
		attribution: widget.NewEntry(),
		watermark:   widget.NewEntry(),
		status:      widget.NewLabel("Choose an image to start"),
	}
	f.quote.SetPlaceHolder("Quote")
	f.quote.Wrapping = fyne.TextWrapWord
	f.quote.SetMinRowsVisible(4)
	f.attribution.SetPlaceHolder("Attribution (optional)")
	f.watermark.SetPlaceHolder("Watermark (optional)")

	f.preview = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	f.preview.FillMode = canvas.ImageFillContain
	f.preview.ScaleMode = canvas.ImageScaleSmooth
	f.preview.SetMinSize(fyne.NewSize(previewMax, previewMax))
	f.preview.Hide()

	f.choose = widget.NewButton("Choose Image…", nil)
	f.download = widget.NewButton("Download Quote Image", nil)
	f.download.Importance = widget.HighImportance
	f.download.Disable()

	f.quote.OnChanged = func(s string) { sess.SetQuote(s); f.syncExport() }
	f.attribution.OnChanged = func(s string) { sess.SetAttribution(s); f.syncExport() }
	f.watermark.OnChanged = func(s string) { sess.SetWatermark(s); f.syncExport() }
	sess.OnFrame = f.show
	return f
}

func (f *quoteForm) show(fr session.Frame) {
	f.preview.Image = fr.Image
	f.preview.Show()
	f.preview.Refresh()
	msg := fmt.Sprintf("%s · %d line(s) at %dpx", fr.Target, len(fr.Plan.Lines), fr.Plan.FontSizePx)
	if fr.Plan.Truncated {
		msg += " · truncated"
	}
	f.status.SetText(msg)
	f.syncExport()
}

// applySpec fills the entries from q; each entry pushes its text to the
// session through OnChanged.
func (f *quoteForm) applySpec(q domain.QuoteSpec) {
	f.quote.SetText(q.Text)
	f.attribution.SetText(q.Attribution)
	f.watermark.SetText(q.Watermark)
}

// firstImage returns the first dropped URI with a supported image extension.
func firstImage(uris []fyne.URI) (fyne.URI, bool) {
	for _, u := range uris {
		if background.Supported(u.Name()) {
			return u, true
		}
	}
	return nil, false
}

func (f *quoteForm) syncExport() {
	if f.sess.CanExport() {
		f.download.Enable()
	} else {
		f.download.Disable()
	}
}

func (f *quoteForm) content() fyne.CanvasObject {
	inputs := container.NewVBox(
		widget.NewLabel("Quote"), f.quote,
		widget.NewLabel("Attribution"), f.attribution,
		widget.NewLabel("Watermark"), f.watermark,
		f.choose,
		f.download,
	)
	return container.NewBorder(nil, f.status, inputs, nil, container.NewCenter(f.preview))
}

// Run starts the Fyne-based desktop UI.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	info := &crash.Info{Details: map[string]string{"surface": "ui"}, Upload: opts.Telemetry.UploadCrash}
	defer crash.Recover(info)

	fyneApp := app.NewWithID("quotegen")
	w := fyneApp.NewWindow("Quote Image")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 560)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sess := session.New(opts.Fonts)
	form := newQuoteForm(sess, opts.previewMax())
	defaultFormat, defaultName := opts.download()

	loadFrom := func(rc fyne.URIReadCloser) {
		defer func() { _ = rc.Close() }()
		if err := sess.LoadImage(rc); err != nil {
			dialog.ShowError(fmt.Errorf("could not open %s: %w", rc.URI().Name(), err), w)
			return
		}
		info.Details["image"] = rc.URI().Name()
		l.Info("image chosen", slog.String("name", rc.URI().Name()))
	}
	form.choose.OnTapped = func() {
		open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			loadFrom(rc)
		}, w)
		open.SetFilter(fstorage.NewExtensionFileFilter(background.Extensions))
		open.Show()
	}
	form.download.OnTapped = func() {
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			format, ferr := export.FormatForPath(uc.URI().Name())
			if ferr != nil {
				format = defaultFormat
			}
			err = sess.Export(uc, format)
			if cerr := uc.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			l.Info("exported", slog.String("uri", uc.URI().String()), slog.String("format", string(format)))
			if fr, ok := sess.Frame(); ok {
				stats := fr.Stats()
				stats["format"] = string(format)
				stats["surface"] = "ui"
				opts.Telemetry.Event("export", stats)
			}
			form.status.SetText("Saved " + uc.URI().Name())
		}, w)
		save.SetFileName(defaultName)
		save.Show()
	}

	openQuoteItem := fyne.NewMenuItem("Open Quote…", func() {
		open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			defer func() { _ = rc.Close() }()
			data, rerr := io.ReadAll(rc)
			if rerr != nil {
				dialog.ShowError(rerr, w)
				return
			}
			q, perr := quotefile.Parse(data)
			if perr != nil {
				dialog.ShowError(perr, w)
				return
			}
			form.applySpec(q)
			l.Info("quote file opened", slog.String("name", rc.URI().Name()))
		}, w)
		open.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
		open.Show()
	})
	saveQuoteItem := fyne.NewMenuItem("Save Quote…", func() {
		data, err := quotefile.Marshal(sess.Spec())
		if err != nil {
			dialog.ShowInformation("Save Quote", "Enter a quote first.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			_, err = uc.Write(data)
			if cerr := uc.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			form.status.SetText("Saved " + uc.URI().Name())
		}, w)
		save.SetFileName("quote.json")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".json"}))
		save.Show()
	})
	w.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", openQuoteItem, saveQuoteItem)))

	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		u, ok := firstImage(uris)
		if !ok {
			form.status.SetText("Drop a PNG, JPEG, GIF, WebP, BMP or TIFF image")
			return
		}
		rc, err := fstorage.Reader(u)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		loadFrom(rc)
	})

	if opts.Image != "" {
		if f, err := os.Open(opts.Image); err != nil {
			l.Error("open image failed", slog.Any("err", err))
		} else {
			if err := sess.LoadImage(f); err != nil {
				l.Error("decode image failed", slog.String("path", opts.Image), slog.Any("err", err))
			} else {
				info.Details["image"] = filepath.Base(opts.Image)
			}
			_ = f.Close()
		}
	}

	w.SetContent(form.content())
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}
