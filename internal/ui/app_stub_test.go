//go:build !fyne

package ui

import (
	"strings"
	"testing"

	"quotegen/internal/config"
	"quotegen/internal/export"
)

func TestRunStub_ReturnsHelpfulError(t *testing.T) {
	err := Run(Options{})
	if err == nil {
		t.Fatal("expected error from Run() in non-fyne build, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "UI not built") || !strings.Contains(msg, "-tags fyne") {
		t.Fatalf("unexpected error message: %q", msg)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if f, name := o.download(); o.previewMax() != 350 || f != export.FormatPNG || name != "quote.png" {
		t.Fatalf("defaults = %v %q %q", o.previewMax(), f, name)
	}
	o.Config = config.Defaults()
	o.Config.UI.PreviewMax = 500
	o.Config.Export.FileName = "out.svg"
	o.Config.Export.Format = "svg"
	if f, name := o.download(); o.previewMax() != 500 || f != export.FormatSVG || name != "out.svg" {
		t.Fatalf("configured = %v %q %q", o.previewMax(), f, name)
	}
}

func TestOptionsConfiguredPreset(t *testing.T) {
	o := Options{Config: config.Defaults()}
	o.Config.Export.Preset = "print"
	if f, name := o.download(); f != export.FormatPDF || name != "quote.pdf" {
		t.Fatalf("preset print = %q %q", f, name)
	}
	o.Config.Export.Preset = "poster"
	if f, name := o.download(); f != export.FormatPNG || name != export.DefaultFileName {
		t.Fatalf("unknown preset should fall back, got %q %q", f, name)
	}
}
