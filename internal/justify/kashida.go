/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package justify

import (
	"mushafkit/internal/quran"
	"mushafkit/internal/segment"
	"mushafkit/internal/shaping"
)

// applyKashida attempts one elongation step at the letter pair beginning at
// letter index pos of subword sub of word w. The first letter takes the
// accumulated cv01 step, the pair takes its ligature decomposition, and the
// second letter takes cv02 at single or double rate depending on whether it
// is a subword-final ascendant. Returns (committed, overflow).
func (ji *justInfo) applyKashida(w, sub, pos int, typ StretchType) (bool, bool) {
	ww := &ji.words[w]
	sw := &ww.word.Subwords[sub]
	if pos+1 >= sw.Len() {
		return false, false
	}
	first, second := sw.Letters[pos], sw.Letters[pos+1]
	if !pairAllowed(first, second) {
		return false, false
	}
	off1, off2 := sw.Offsets[pos], sw.Offsets[pos+1]
	count := ww.kashida[off1] + 1
	if count > MaxKashidaLevel {
		return false, false
	}

	firstInitial := pos == 0
	secondFinal := pos+1 == sw.Len()-1
	tailValue := count
	if secondFinal && quran.IsAscendant(second) {
		tailValue = 2 * count
	}
	lig := ligatureFeature(first, second, firstInitial, secondFinal)

	feats := []shaping.Feature{
		{Tag: FeatKashida.Tag(), Value: count, Start: off1, End: off1 + 1},
		{Tag: lig.Tag(), Value: 1, Start: off1, End: off2 + 1},
		{Tag: FeatKashidaTail.Tag(), Value: tailValue, Start: off2, End: off2 + 1},
	}
	if typ == StretchKaf {
		if d, ok := trailingFathaOffset(ww.word, off2); ok {
			feats = append(feats, shaping.Feature{
				Tag: FeatDiacriticStretch.Tag(), Value: count, Start: d, End: d + 1,
			})
		}
	}

	committed, overflow := ji.tryCommit(w, feats)
	if committed {
		ww.kashida[off1] = count
	}
	return committed, overflow
}

// applyAlternate attempts one alternate-form step on the subword-final
// letter at index pos. Alternates reuse cv01 with the higher cap and the
// same trailing-diacritic boost as the kaf rule.
func (ji *justInfo) applyAlternate(w, sub, pos int) (bool, bool) {
	ww := &ji.words[w]
	sw := &ww.word.Subwords[sub]
	off := sw.Offsets[pos]
	count := ww.alternate[off] + 1
	if count > MaxAlternateLevel {
		return false, false
	}

	feats := []shaping.Feature{
		{Tag: FeatKashida.Tag(), Value: count, Start: off, End: off + 1},
	}
	if d, ok := trailingFathaOffset(ww.word, off); ok {
		feats = append(feats, shaping.Feature{
			Tag: FeatDiacriticStretch.Tag(), Value: count, Start: d, End: d + 1,
		})
	}

	committed, overflow := ji.tryCommit(w, feats)
	if committed {
		ww.alternate[off] = count
	}
	return committed, overflow
}

// trailingFathaOffset locates a fatha, or the fatha of a shadda+fatha
// stack, immediately following the letter at word-relative offset off.
// The returned offset is word-relative.
func trailingFathaOffset(w *segment.WordInfo, off int) (int, bool) {
	runes := []rune(w.Text)
	i := off + 1
	if i < len(runes) && runes[i] == quran.Shadda {
		i++
	}
	if i < len(runes) && runes[i] == quran.Fatha {
		return i, true
	}
	return 0, false
}

// kashidaSites returns the positions of typ's sites in subword sub of word
// w whose accumulated level is still below level, ordered last to first.
func (ji *justInfo) kashidaSites(w, sub int, typ StretchType, level uint32) []int {
	ww := &ji.words[w]
	sw := &ww.word.Subwords[sub]
	positions := matchPositions(stretchPatterns[typ], sw.BaseText())
	var out []int
	for i := len(positions) - 1; i >= 0; i-- {
		pos := positions[i]
		if pos >= sw.Len() {
			continue
		}
		if ww.kashida[sw.Offsets[pos]] < level {
			out = append(out, pos)
		}
	}
	return out
}

// alternateSites is kashidaSites for final-letter alternates.
func (ji *justInfo) alternateSites(w, sub int, typ AlternateType, level uint32) []int {
	ww := &ji.words[w]
	sw := &ww.word.Subwords[sub]
	positions := matchPositions(alternatePatterns[typ], sw.BaseText())
	var out []int
	for i := len(positions) - 1; i >= 0; i-- {
		pos := positions[i]
		if pos >= sw.Len() {
			continue
		}
		if ww.alternate[sw.Offsets[pos]] < level {
			out = append(out, pos)
		}
	}
	return out
}
