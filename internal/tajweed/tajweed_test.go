/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tajweed

import (
	"reflect"
	"testing"

	"mushafkit/internal/quran"
)

func contentLines(texts ...string) []quran.Line {
	out := make([]quran.Line, len(texts))
	for i, s := range texts {
		out[i] = quran.Line{Text: s, Type: quran.LineContent, WidthRatio: 1}
	}
	return out
}

func classify(t *testing.T, lines []quran.Line, v quran.MushafVariant) Map {
	t.Helper()
	m, err := Classify(lines, v)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return m
}

func TestHeavyLetters(t *testing.T) {
	// خَلَقَ: kha and qaf are heavy, lam is not.
	m := classify(t, contentLines("خَلَقَ"), quran.Madinah)
	if got := m[Position{Line: 0, Offset: 0}]; got != Tafkhim {
		t.Errorf("kha class = %v, want tafkhim", got)
	}
	if got := m[Position{Line: 0, Offset: 4}]; got != Tafkhim {
		t.Errorf("qaf class = %v, want tafkhim", got)
	}
	if _, ok := m[Position{Line: 0, Offset: 2}]; ok {
		t.Errorf("lam unexpectedly classified")
	}
}

func TestQalqalahCoversLetterAndSukun(t *testing.T) {
	// قَدْ: the vowelless dal takes qalqalah on the letter and its sukun.
	m := classify(t, contentLines("قَدْ"), quran.Madinah)
	for _, off := range []int{2, 3} {
		if got := m[Position{Line: 0, Offset: off}]; got != Qalqalah {
			t.Errorf("offset %d class = %v, want qalqalah", off, got)
		}
	}
	if got := m[Position{Line: 0, Offset: 0}]; got != Tafkhim {
		t.Errorf("qaf class = %v, want tafkhim", got)
	}
}

func TestHamzatWasl(t *testing.T) {
	m := classify(t, contentLines("ٱللَّهِ"), quran.Madinah)
	if got := m[Position{Line: 0, Offset: 0}]; got != HamzatWasl {
		t.Errorf("alef-wasl class = %v, want ham_wasl", got)
	}
}

func TestGhunnahOnDoubledNoon(t *testing.T) {
	// إِنَّ: noon plus shadda.
	m := classify(t, contentLines("إِنَّ"), quran.Madinah)
	for _, off := range []int{2, 3} {
		if got := m[Position{Line: 0, Offset: off}]; got != Ghunnah {
			t.Errorf("offset %d class = %v, want ghunnah", off, got)
		}
	}
}

func TestIkhfaAcrossWordBoundary(t *testing.T) {
	// مِن تَحْتِ: noon sakin before teh conceals.
	m := classify(t, contentLines("مِن تَحْتِ"), quran.Madinah)
	if got := m[Position{Line: 0, Offset: 2}]; got != Ikhfa {
		t.Errorf("noon class = %v, want ikhfa", got)
	}
}

func TestMaddNormalAndSilentAlef(t *testing.T) {
	// كَفَرُوا: damma+waw is a natural madd, the trailing group alef is
	// silent, the open reh is heavy.
	m := classify(t, contentLines("كَفَرُوا"), quran.Madinah)
	if got := m[Position{Line: 0, Offset: 4}]; got != Tafkhim {
		t.Errorf("reh class = %v, want tafkhim", got)
	}
	for _, off := range []int{5, 6} {
		if got := m[Position{Line: 0, Offset: off}]; got != MaddNormal {
			t.Errorf("offset %d class = %v, want madda_normal", off, got)
		}
	}
	if got := m[Position{Line: 0, Offset: 7}]; got != Silent {
		t.Errorf("alef class = %v, want slnt", got)
	}
}

func TestRemapAcrossLines(t *testing.T) {
	// Identical rule matter on line 1 must resolve to line-1 positions.
	m := classify(t, contentLines("خَلَقَ", "قَالَ"), quran.Madinah)
	if got := m[Position{Line: 1, Offset: 0}]; got != Tafkhim {
		t.Errorf("line-1 qaf class = %v, want tafkhim", got)
	}
	for _, off := range []int{1, 2} {
		if got := m[Position{Line: 1, Offset: off}]; got != MaddNormal {
			t.Errorf("line-1 offset %d = %v, want madda_normal", off, got)
		}
	}
}

func TestCrossLineRuleContext(t *testing.T) {
	// The concealed noon ends line 0; its trigger letter opens line 1.
	// Lines are joined with a separating space, which the ikhfa pattern
	// tolerates, so the rule must still fire.
	m := classify(t, contentLines("مِن", "تَحْتِ"), quran.Madinah)
	if got := m[Position{Line: 0, Offset: 2}]; got != Ikhfa {
		t.Errorf("line-final noon class = %v, want ikhfa", got)
	}
}

func TestHeaderSkippedAndBasmalaIsolates(t *testing.T) {
	lines := []quran.Line{
		{Text: "سُورَةُ ٱلْإِخْلَاصِ", Type: quran.LineSurahHeader, WidthRatio: 1},
		{Text: "", Type: quran.LineBasmala, WidthRatio: 1},
		{Text: "قَدْ", Type: quran.LineContent, WidthRatio: 1},
	}
	m := classify(t, lines, quran.Madinah)
	for p := range m {
		if p.Line != 2 {
			t.Errorf("classification escaped onto line %d at %+v", p.Line, p)
		}
	}
	if got := m[Position{Line: 2, Offset: 2}]; got != Qalqalah {
		t.Errorf("dal class = %v, want qalqalah", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	lines := contentLines("بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", "قُلْ هُوَ ٱللَّهُ أَحَدٌ")
	a := classify(t, lines, quran.Madinah)
	b := classify(t, lines, quran.Madinah)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("classification is not deterministic")
	}
}

func TestVariantsMayDisagree(t *testing.T) {
	// Both variant patterns must at least run cleanly over the same page.
	lines := contentLines("قُلْ هُوَ ٱللَّهُ أَحَدٌ")
	if m := classify(t, lines, quran.Madinah); len(m) == 0 {
		t.Errorf("Madinah pass classified nothing")
	}
	if m := classify(t, lines, quran.IndoPak); len(m) == 0 {
		t.Errorf("IndoPak pass classified nothing")
	}
}

func TestLineClasses(t *testing.T) {
	m := classify(t, contentLines("خَلَقَ", "قَدْ"), quran.Madinah)
	l1 := m.LineClasses(1)
	if got := l1[0]; got != Tafkhim {
		t.Errorf("line-1 offset 0 = %v, want tafkhim", got)
	}
	if got := l1[2]; got != Qalqalah {
		t.Errorf("line-1 offset 2 = %v, want qalqalah", got)
	}
	for off := range l1 {
		if off > 3 {
			t.Errorf("line-1 view contains out-of-line offset %d", off)
		}
	}
}
