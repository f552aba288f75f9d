/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

// perRune measures every rune as w pixels wide.
func perRune(w float64) func(string) float64 {
	return func(s string) float64 { return float64(utf8.RuneCountInString(s)) * w }
}

func TestWrapEmpty(t *testing.T) {
	for _, s := range []string{"", "   ", "\n\t"} {
		if got := Wrap(s, 100, perRune(1)); len(got) != 0 {
			t.Fatalf("Wrap(%q) = %q, want no lines", s, got)
		}
	}
}

func TestWrapGreedy(t *testing.T) {
	got := Wrap("the quick brown fox jumps", 10, perRune(1))
	want := []string{"the quick", "brown fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
}

func TestWrapCollapsesWhitespace(t *testing.T) {
	got := Wrap("  a\tb \n c  ", 100, perRune(1))
	if !reflect.DeepEqual(got, []string{"a b c"}) {
		t.Fatalf("Wrap = %q", got)
	}
}

func TestWrapKeepsLongWordWhole(t *testing.T) {
	got := Wrap("a supercalifragilistic b", 5, perRune(1))
	want := []string{"a", "supercalifragilistic", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
}

// TestWrapProperties checks width bound and word order on random input.
func TestWrapProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	letters := []rune("abcdefghijklmnopqrstuvwxyzäöü")
	for iter := 0; iter < 300; iter++ {
		words := make([]string, rng.Intn(40))
		for i := range words {
			w := make([]rune, 1+rng.Intn(14))
			for j := range w {
				w[j] = letters[rng.Intn(len(letters))]
			}
			words[i] = string(w)
		}
		text := strings.Join(words, strings.Repeat(" ", 1+rng.Intn(3)))
		maxW := float64(1 + rng.Intn(60))
		measure := perRune(1)

		lines := Wrap(text, maxW, measure)
		for _, l := range lines {
			if measure(l) > maxW && len(strings.Fields(l)) != 1 {
				t.Fatalf("line %q exceeds %v and is not a single word", l, maxW)
			}
		}
		if got, want := strings.Fields(strings.Join(lines, " ")), strings.Fields(text); !reflect.DeepEqual(got, want) {
			t.Fatalf("word order changed:\n got %q\nwant %q", got, want)
		}
	}
}

func TestEllipsize(t *testing.T) {
	m := perRune(1)
	cases := []struct {
		in   string
		max  float64
		want string
	}{
		{"hello world", 6, "hello…"},
		{"hello", 10, "hello…"},
		{"abc", 0, "…"},
		{"äöüß", 3, "äö…"},
	}
	for _, c := range cases {
		if got := Ellipsize(c.in, c.max, m); got != c.want {
			t.Fatalf("Ellipsize(%q, %v) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestFaceMeasurerBasic(t *testing.T) {
	m := FaceMeasurer{Provider: BasicProvider{}}
	if got := m.Measure("ABC", FontSpec{}); got != 21 {
		t.Fatalf("Face7x13 width of ABC = %v, want 21", got)
	}
	if m.Measure("A", FontSpec{})+m.Measure("BC", FontSpec{}) != m.Measure("ABC", FontSpec{}) {
		t.Fatalf("basic face measurement should be additive")
	}
}

func TestMeasureFunc(t *testing.T) {
	var m Measurer = MeasureFunc(func(s string, spec FontSpec) float64 { return spec.SizePx * float64(len(s)) })
	if got := m.Measure("ab", FontSpec{SizePx: 10}); got != 20 {
		t.Fatalf("Measure = %v", got)
	}
}
