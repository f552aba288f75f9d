/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"quotegen/internal/background"
	"quotegen/internal/config"
	"quotegen/internal/crash"
	"quotegen/internal/domain"
	"quotegen/internal/export"
	applog "quotegen/internal/log"
	"quotegen/internal/quotefile"
	"quotegen/internal/session"
	"quotegen/internal/telemetry"
	"quotegen/internal/textlayout"
	"quotegen/internal/ui"
	"quotegen/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "quotegen: put a quote on a picture")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  quotegen version|-v|--version              Show version")
	fmt.Fprintln(w, "  quotegen render -image <file> -quote <text>  Compose and export (see render -h)")
	fmt.Fprintln(w, "  quotegen plan (-image <file>|-size WxH) ...  Print the text layout as JSON")
	fmt.Fprintln(w, "  quotegen ui [<image>]                        Launch desktop UI (build with -tags fyne)")
	fmt.Fprintln(w, "  quotegen config path|init                    Show or write the config file")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, cerr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	}.Merge(applog.FromEnv()))
	defer func() { _ = applog.Close() }()
	l := applog.WithComponent("cli")
	if cerr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cerr))
	}

	tc := telemetry.New(telemetry.FromEnv())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		tc.Flush(ctx)
		tc.Close()
	}()

	info := &crash.Info{Details: map[string]string{"command": firstArg(args)}, Upload: tc.UploadCrash}
	defer crash.Recover(info)

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	lib := fontLibrary(cfg.Fonts, l)
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "quotegen", version.String())
		return 0
	case "render":
		return cmdRender(args[1:], cfg, lib, tc, stdout, stderr)
	case "plan":
		return cmdPlan(args[1:], lib, stdout, stderr)
	case "ui":
		opts := ui.Options{Config: cfg, Fonts: lib, Telemetry: tc}
		if len(args) >= 2 {
			opts.Image = args[1]
		}
		if err := ui.Run(opts); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	case "config":
		return cmdConfig(args[1:], cfg, stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	}
	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

// fontLibrary returns the builtin Go fonts with the configured overrides
// loaded on top. A font that fails to load is logged and skipped.
func fontLibrary(fc config.FontsConfig, l *slog.Logger) *textlayout.FontLibrary {
	lib := textlayout.BuiltinLibrary()
	for _, o := range []struct {
		path   string
		weight int
		italic bool
	}{
		{fc.Regular, 400, false},
		{fc.Bold, 700, false},
		{fc.Italic, 400, true},
		{fc.BoldItalic, 700, true},
	} {
		if o.path == "" {
			continue
		}
		if err := lib.LoadTTF(textlayout.DefaultFamily, o.weight, o.italic, o.path); err != nil {
			l.Warn("font override skipped", slog.String("path", o.path), slog.Any("err", err))
		}
	}
	l.Debug("fonts ready", slog.Any("families", lib.Families()))
	return lib
}

// quoteFlags are the inputs shared by render and plan.
type quoteFlags struct {
	image, spec                   string
	quote, attribution, watermark string
}

func (q *quoteFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&q.image, "image", "", "background image (png, jpeg, gif, webp, bmp, tiff)")
	fs.StringVar(&q.spec, "spec", "", "JSON quote file {\"quote\",\"attribution\",\"watermark\"}")
	fs.StringVar(&q.quote, "quote", "", "quote text")
	fs.StringVar(&q.attribution, "attribution", "", "attribution shown below the quote")
	fs.StringVar(&q.watermark, "watermark", "", "watermark in the bottom right corner")
}

// resolve loads the quote file, if any, and lets non-empty flags override it.
func (q *quoteFlags) resolve() (domain.QuoteSpec, error) {
	var spec domain.QuoteSpec
	if q.spec != "" {
		s, err := quotefile.Load(q.spec)
		if err != nil {
			return spec, err
		}
		spec = s
	}
	if q.quote != "" {
		spec.Text = q.quote
	}
	if q.attribution != "" {
		spec.Attribution = q.attribution
	}
	if q.watermark != "" {
		spec.Watermark = q.watermark
	}
	return spec, nil
}

// parseExit maps a flag parse error to an exit code; -h is not a failure.
func parseExit(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func cmdRender(args []string, cfg config.AppConfig, lib *textlayout.FontLibrary, tc *telemetry.Client, stdout, stderr io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "render")
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var q quoteFlags
	q.register(fs)
	formatFlag := fs.String("format", "", "output format: png, pdf or svg")
	preset := fs.String("preset", "", "export preset: web (png) or print (pdf)")
	out := fs.String("out", "", "output file (default from config, quote.png)")
	saveSpec := fs.String("save-spec", "", "also write the quote as a JSON quote file")
	if err := fs.Parse(args); err != nil {
		return parseExit(err)
	}

	spec, err := q.resolve()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	if !spec.HasText() {
		fmt.Fprintln(stderr, "render requires a quote (-quote or -spec)")
		return 2
	}
	if q.image == "" {
		fmt.Fprintln(stderr, "render requires -image")
		return 2
	}
	format, path, err := outputFor(*formatFlag, *preset, *out, cfg.Export)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	if !background.Supported(q.image) {
		l.Warn("unrecognized image extension, decoding by content", slog.String("path", q.image))
	}
	bg, err := background.Load(q.image)
	if err != nil {
		l.Error("load image failed", slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	sess := session.New(lib)
	sess.SetSpec(spec)
	sess.SetBackground(bg)
	if err := sess.ExportFile(path, format); err != nil {
		l.Error("export failed", slog.Any("err", err))
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	fr, _ := sess.Frame()
	l.Debug("frame", slog.Int("font_px", fr.Plan.FontSizePx), slog.Bool("truncated", fr.Plan.Truncated))
	if *saveSpec != "" {
		if err := quotefile.Save(*saveSpec, spec); err != nil {
			l.Error("save quote file failed", slog.Any("err", err))
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		fmt.Fprintln(stdout, "Wrote", *saveSpec)
	}
	stats := fr.Stats()
	stats["format"] = string(format)
	stats["surface"] = "cli"
	tc.Event("export", stats)
	fmt.Fprintln(stdout, "Wrote", path)
	return 0
}

// outputFor decides format and path from the flags and the export config.
func outputFor(formatFlag, preset, out string, ec config.ExportConfig) (export.Format, string, error) {
	return export.Resolve(
		export.Selection{Format: formatFlag, Preset: preset, Path: out},
		export.Selection{Format: ec.Format, Preset: ec.Preset, Path: ec.FileName},
	)
}

func cmdPlan(args []string, lib *textlayout.FontLibrary, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var q quoteFlags
	q.register(fs)
	size := fs.String("size", "", "canvas size WxH, used instead of -image")
	if err := fs.Parse(args); err != nil {
		return parseExit(err)
	}
	spec, err := q.resolve()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	target, err := planTarget(q.image, *size)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	planner := textlayout.NewPlanner(textlayout.FaceMeasurer{Provider: textlayout.OTProvider{Lib: lib}})
	plan := planner.Plan(spec.Text, spec.Attribution, target.Width, target.Height)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func planTarget(image, size string) (domain.CanvasTarget, error) {
	if size != "" {
		var t domain.CanvasTarget
		if _, err := fmt.Sscanf(strings.ToLower(size), "%dx%d", &t.Width, &t.Height); err != nil || !t.Valid() {
			return t, fmt.Errorf("invalid -size %q, want WxH", size)
		}
		return t, nil
	}
	if image == "" {
		return domain.CanvasTarget{}, errors.New("plan requires -image or -size")
	}
	bg, err := background.Load(image)
	if err != nil {
		return domain.CanvasTarget{}, err
	}
	return bg.Target(), nil
}

// cmdConfig prints the config path or writes the effective config there,
// so users get a file to edit.
func cmdConfig(args []string, cfg config.AppConfig, stdout, stderr io.Writer) int {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	sub := firstArg(args)
	switch sub {
	case "", "path":
		fmt.Fprintln(stdout, path)
		return 0
	case "init":
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintln(stderr, "config already exists:", path)
			return 1
		}
		if err := config.Save(cfg); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		fmt.Fprintln(stdout, "Wrote", path)
		return 0
	}
	fmt.Fprintf(stderr, "unknown config command %q (want path or init)\n", sub)
	return 2
}
