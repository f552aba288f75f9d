/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "quotegen/internal/domain"

// TextStyle is a named preset: font, color and opacity of one text role.
// Quote and attribution sizes are placeholders; the fit planner sets them.
type TextStyle struct {
	Name  string
	Font  FontSpec
	Color domain.Color
	Alpha float64
}

// Style names used by the composition.
const (
	StyleQuote       = "Quote"
	StyleAttribution = "Attribution"
	StyleWatermark   = "Watermark"
)

// WatermarkSizePx is the fixed watermark size regardless of canvas size.
const WatermarkSizePx = 14

var builtinStyles = map[string]TextStyle{
	StyleQuote: {
		Name:  StyleQuote,
		Font:  FontSpec{Family: DefaultFamily, Weight: 700},
		Color: domain.MustHex("#222"),
		Alpha: 1,
	},
	StyleAttribution: {
		Name:  StyleAttribution,
		Font:  FontSpec{Family: DefaultFamily, Weight: 400, Italic: true},
		Color: domain.MustHex("#444"),
		Alpha: 1,
	},
	StyleWatermark: {
		Name:  StyleWatermark,
		Font:  FontSpec{Family: DefaultFamily, SizePx: WatermarkSizePx, Weight: 700},
		Color: domain.MustHex("#222"),
		Alpha: 0.4,
	},
}

func lookupStyle(name string) (TextStyle, bool) {
	s, ok := builtinStyles[name]
	return s, ok
}

// MustStyle returns a builtin preset by name. It panics on names not
// declared in this package.
func MustStyle(name string) TextStyle {
	s, ok := lookupStyle(name)
	if !ok {
		panic("textlayout: unknown style " + name)
	}
	return s
}
