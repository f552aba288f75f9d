/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestBuiltinStyles(t *testing.T) {
	for _, name := range []string{StyleQuote, StyleAttribution, StyleWatermark} {
		s, ok := lookupStyle(name)
		if !ok || s.Name != name {
			t.Fatalf("style %q missing or misnamed: %+v", name, s)
		}
		if s.Font.Family != DefaultFamily {
			t.Fatalf("style %q uses family %q", name, s.Font.Family)
		}
	}
	if !MustStyle(StyleQuote).Font.Bold() || MustStyle(StyleAttribution).Font.Bold() {
		t.Fatalf("quote must be bold, attribution regular")
	}
	if !MustStyle(StyleAttribution).Font.Italic {
		t.Fatalf("attribution must be italic")
	}
	wm := MustStyle(StyleWatermark)
	if wm.Font.SizePx != WatermarkSizePx || wm.Alpha != 0.4 {
		t.Fatalf("watermark preset = %+v", wm)
	}
	if _, ok := lookupStyle("Dialogue"); ok {
		t.Fatalf("unexpected style")
	}
}
