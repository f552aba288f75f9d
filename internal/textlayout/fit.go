/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math"
	"strings"
)

// Fit parameters. Sizes are pixels; the factors are relative to the canvas
// or to the quote font size.
const (
	MinFontSize       = 14
	FontStep          = 2
	SizeDivisor       = 12
	LineHeightFactor  = 1.2
	WidthBudget       = 0.8
	HeightBudget      = 0.5
	QuoterScale       = 0.7
	MinQuoterFontSize = 12
	QuoterLineFactor  = 1.5
)

// FitPlan is the computed layout of one render pass. It is a value: plans
// are recomputed from scratch on every change and never mutated.
type FitPlan struct {
	Lines            []string `json:"lines"`
	FontSizePx       int      `json:"fontSizePx"`
	QuoterFontSizePx float64  `json:"quoterFontSizePx"`
	BlockTopY        float64  `json:"blockTopY"`

	QuoterBlockHeight float64 `json:"quoterBlockHeight"`
	MaxWidth          float64 `json:"maxWidth"`
	MaxHeight         float64 `json:"maxHeight"`
	Truncated         bool    `json:"truncated"`
}

// LineHeight is the distance between consecutive quote lines.
func (p FitPlan) LineHeight() float64 { return float64(p.FontSizePx) * LineHeightFactor }

// TextHeight is the height of the quote lines without the attribution.
func (p FitPlan) TextHeight() float64 { return float64(len(p.Lines)) * p.LineHeight() }

// Empty reports whether the plan has no quote lines to draw.
func (p FitPlan) Empty() bool { return len(p.Lines) == 0 }

// Planner computes FitPlans. The zero value measures with BasicProvider
// faces and the builtin Quote style.
type Planner struct {
	Measurer Measurer
	Font     FontSpec // quote font; size is chosen by Plan
}

// NewPlanner returns a planner measuring with m in the builtin quote font.
func NewPlanner(m Measurer) Planner {
	return Planner{Measurer: m, Font: MustStyle(StyleQuote).Font}
}

// InitialFontSize is the first size tried for a canvas of the given height:
// height/12, raised to MinFontSize. Canvases shorter than 168px therefore
// get one attempt at MinFontSize instead of an empty search loop.
func InitialFontSize(height int) int {
	fs := height / SizeDivisor
	if fs < MinFontSize {
		fs = MinFontSize
	}
	return fs
}

// Plan wraps quote into the width budget of a width x height canvas and
// searches font sizes downward in FontStep decrements until the lines fit
// the height budget. When even MinFontSize overflows, the lines beyond the
// budget are dropped and the last kept line is ellipsized. Lines that are
// wider than the budget on their own (a single long word) are ellipsized
// too. quoter only affects the vertical placement. Plan never fails.
func (p Planner) Plan(quote, quoter string, width, height int) FitPlan {
	plan := FitPlan{
		MaxWidth:   float64(width) * WidthBudget,
		MaxHeight:  float64(height) * HeightBudget,
		FontSizePx: InitialFontSize(height),
	}

	if strings.TrimSpace(quote) != "" {
		fitted := false
		var lines []string
		for fs := plan.FontSizePx; fs >= MinFontSize; fs -= FontStep {
			lines = Wrap(quote, plan.MaxWidth, p.measureAt(fs))
			plan.FontSizePx = fs
			if float64(len(lines))*float64(fs)*LineHeightFactor <= plan.MaxHeight {
				fitted = true
				break
			}
		}

		measure := p.measureAt(plan.FontSizePx)
		if !fitted {
			allowed := int(math.Floor(plan.MaxHeight / (float64(plan.FontSizePx) * LineHeightFactor)))
			if allowed < 1 {
				allowed = 1
			}
			if len(lines) > allowed {
				lines = lines[:allowed]
			}
			last := len(lines) - 1
			lines[last] = Ellipsize(lines[last], plan.MaxWidth, measure)
			plan.Truncated = true
		}
		for i, l := range lines {
			if l != Ellipsis && measure(l) > plan.MaxWidth {
				lines[i] = Ellipsize(l, plan.MaxWidth, measure)
				plan.Truncated = true
			}
		}
		plan.Lines = lines
	}

	plan.QuoterFontSizePx = math.Max(float64(plan.FontSizePx)*QuoterScale, MinQuoterFontSize)
	if strings.TrimSpace(quoter) != "" {
		plan.QuoterBlockHeight = plan.QuoterFontSizePx * QuoterLineFactor
	}
	plan.BlockTopY = float64(height)/2 - (plan.TextHeight()+plan.QuoterBlockHeight)/2
	return plan
}

func (p Planner) measureAt(fs int) func(string) float64 {
	m := p.Measurer
	if m == nil {
		m = FaceMeasurer{Provider: BasicProvider{}}
	}
	spec := p.Font
	if spec.Family == "" {
		spec = MustStyle(StyleQuote).Font
	}
	spec = spec.WithSize(float64(fs))
	return func(s string) float64 { return m.Measure(s, spec) }
}
