/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration of quotegen.
//
// Settings live in a YAML file in the user scope; environment variables are
// read-only overrides applied on top at runtime and are never written back.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the config_version written by Save. Bump it when the
// structure changes incompatibly.
const CurrentVersion = 1

type GeneralConfig struct {
	Theme string `yaml:"theme"` // "system" | "light" | "dark"
}

// ExportConfig selects the output of "Download Quote Image" and the CLI.
type ExportConfig struct {
	Format   string `yaml:"format"`    // png | pdf | svg
	FileName string `yaml:"file_name"` // default quote.png
	Preset   string `yaml:"preset"`    // optional: web | print
}

// FontsConfig optionally replaces the built-in Go fonts with TTF/OTF files.
type FontsConfig struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
}

type UIConfig struct {
	PreviewMax int `yaml:"preview_max"` // preview box edge in px
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Export        ExportConfig  `yaml:"export"`
	Fonts         FontsConfig   `yaml:"fonts"`
	UI            UIConfig      `yaml:"ui"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: CurrentVersion,
		General:       GeneralConfig{Theme: "system"},
		Export:        ExportConfig{Format: "png", FileName: "quote.png"},
		UI:            UIConfig{PreviewMax: 350},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "QG_CONFIG"
	EnvExportFormat   = "QG_EXPORT_FORMAT"
	EnvExportFileName = "QG_EXPORT_FILENAME"
	EnvFontRegular    = "QG_FONT_REGULAR"
	EnvFontBold       = "QG_FONT_BOLD"
	EnvFontItalic     = "QG_FONT_ITALIC"
	EnvFontBoldItalic = "QG_FONT_BOLDITALIC"
	EnvPreviewMax     = "QG_UI_PREVIEW_MAX"
	EnvLogLevel       = "QG_LOG_LEVEL"
	EnvLogFormat      = "QG_LOG_FORMAT"
	EnvLogSource      = "QG_LOG_SOURCE"
	EnvLogFile        = "QG_LOG_FILE"
)

// envKeys maps dotted config keys to the variable that overrides them.
var envKeys = map[string]string{
	"export.format":     EnvExportFormat,
	"export.file_name":  EnvExportFileName,
	"fonts.regular":     EnvFontRegular,
	"fonts.bold":        EnvFontBold,
	"fonts.italic":      EnvFontItalic,
	"fonts.bold_italic": EnvFontBoldItalic,
	"ui.preview_max":    EnvPreviewMax,
	"logging.level":     EnvLogLevel,
	"logging.format":    EnvLogFormat,
	"logging.source":    EnvLogSource,
	"logging.file":      EnvLogFile,
}

// ConfigPath returns the per-user config file path. QG_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "QuoteGen")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "QuoteGen")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "quotegen")
		} else if h := os.Getenv("HOME"); h != "" {
			base = filepath.Join(h, ".config", "quotegen")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and applies
// environment overrides. A missing file is not an error. A malformed file
// yields the defaults plus overrides together with a non-nil error, so
// callers can warn and carry on.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var loadErr error
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	case !errors.Is(err, fs.ErrNotExist):
		loadErr = fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, loadErr
}

// Save writes cfg as YAML to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = CurrentVersion
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	setString(&dst.General.Theme, src.General.Theme)
	setLower(&dst.Export.Format, src.Export.Format)
	setString(&dst.Export.FileName, src.Export.FileName)
	setLower(&dst.Export.Preset, src.Export.Preset)
	setString(&dst.Fonts.Regular, src.Fonts.Regular)
	setString(&dst.Fonts.Bold, src.Fonts.Bold)
	setString(&dst.Fonts.Italic, src.Fonts.Italic)
	setString(&dst.Fonts.BoldItalic, src.Fonts.BoldItalic)
	if src.UI.PreviewMax > 0 {
		dst.UI.PreviewMax = src.UI.PreviewMax
	}
	setLower(&dst.Logging.Level, src.Logging.Level)
	setLower(&dst.Logging.Format, src.Logging.Format)
	dst.Logging.Source = src.Logging.Source
	setString(&dst.Logging.File, src.Logging.File)
}

func applyEnvOverrides(cfg *AppConfig) {
	setLower(&cfg.Export.Format, os.Getenv(EnvExportFormat))
	setString(&cfg.Export.FileName, os.Getenv(EnvExportFileName))
	setString(&cfg.Fonts.Regular, os.Getenv(EnvFontRegular))
	setString(&cfg.Fonts.Bold, os.Getenv(EnvFontBold))
	setString(&cfg.Fonts.Italic, os.Getenv(EnvFontItalic))
	setString(&cfg.Fonts.BoldItalic, os.Getenv(EnvFontBoldItalic))
	if v := strings.TrimSpace(os.Getenv(EnvPreviewMax)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UI.PreviewMax = n
		}
	}
	setLower(&cfg.Logging.Level, os.Getenv(EnvLogLevel))
	setLower(&cfg.Logging.Format, os.Getenv(EnvLogFormat))
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	setString(&cfg.Logging.File, os.Getenv(EnvLogFile))
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setLower(dst *string, v string) { setString(dst, strings.ToLower(v)) }

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
