/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui is the desktop host shell: a form with the quote inputs, an
// image picker, a live preview and a download button.
package ui

import (
	"quotegen/internal/config"
	"quotegen/internal/export"
	"quotegen/internal/telemetry"
	"quotegen/internal/textlayout"
)

// Options configure Run.
type Options struct {
	Config    config.AppConfig
	Fonts     *textlayout.FontLibrary // nil means the builtin Go fonts
	Image     string                  // optional background to open at start
	Telemetry *telemetry.Client       // nil sends nothing
}

func (o Options) previewMax() float32 {
	if o.Config.UI.PreviewMax > 0 {
		return float32(o.Config.UI.PreviewMax)
	}
	return float32(config.Defaults().UI.PreviewMax)
}

// download returns the format and file name offered by the save dialog,
// following the configured preset, format and file name.
func (o Options) download() (export.Format, string) {
	ec := o.Config.Export
	f, name, err := export.Resolve(export.Selection{}, export.Selection{Format: ec.Format, Preset: ec.Preset, Path: ec.FileName})
	if err != nil {
		return export.FormatPNG, export.DefaultFileName
	}
	return f, name
}
