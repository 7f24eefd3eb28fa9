/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package justify

import (
	"github.com/dlclark/regexp2"

	"mushafkit/internal/quran"
)

// Kashida context rules. Each StretchType owns a pattern over a subword's
// base text; a match position is the first letter of an elongation site.
// Matching is positional (capture offsets feed the feature assignment), so
// patterns use lookahead for the second letter to keep sites overlapping.
//
// The character classes below encode calligraphic legality, not Unicode
// categories. Do not "simplify" them: several letters are deliberately
// absent from classes they would belong to on phonetic grounds.

const (
	clsJoinable  = "بتثجحخسشصضطظعغفقكلمنهيئ"
	clsBehGroup  = "بتثنيئ"
	clsAscendant = "الكأإآٱ"
	clsAnyBase   = clsJoinable + "اأإآٱدذرزوؤىة"
)

// StretchType identifies one kashida context rule.
type StretchType int

const (
	// StretchBehGroup elongates after a tooth letter joined onward.
	StretchBehGroup StretchType = iota
	// StretchFinalAscendant elongates into a tall subword-final letter.
	StretchFinalAscendant
	// StretchBeforeRehZain elongates into a bowl-final reh or zain.
	StretchBeforeRehZain
	// StretchKaf elongates into a subword-final kaf (swash form); boosts
	// the kaf's trailing fatha.
	StretchKaf
	// StretchSeenGroup elongates the seen/sheen/sad/dad denticle.
	StretchSeenGroup
	// StretchMedial is the generic joined-pair elongation.
	StretchMedial
)

var stretchPatterns = map[StretchType]*regexp2.Regexp{
	StretchBehGroup:       regexp2.MustCompile(`[`+clsBehGroup+`](?=[`+clsAnyBase+`])`, regexp2.None),
	StretchFinalAscendant: regexp2.MustCompile(`[`+clsJoinable+`](?=[`+clsAscendant+`]$)`, regexp2.None),
	StretchBeforeRehZain:  regexp2.MustCompile(`[`+clsJoinable+`](?=[رز])`, regexp2.None),
	StretchKaf:            regexp2.MustCompile(`[بتثجحخسشصضطظعغفقلمنهيئ](?=ك$)`, regexp2.None),
	StretchSeenGroup:      regexp2.MustCompile(`[سشصض](?=[`+clsAnyBase+`])`, regexp2.None),
	StretchMedial:         regexp2.MustCompile(`[جحخعغفقمه](?=[`+clsJoinable+`])`, regexp2.None),
}

// AlternateType identifies one final-letter alternate rule.
type AlternateType int

const (
	// AltFinalDescender swaps a subword-final descender for its elongated
	// alternate (the 5-letter swash class).
	AltFinalDescender AlternateType = iota
	// AltFinalLoop swaps a subword-final loop letter.
	AltFinalLoop
)

var alternatePatterns = map[AlternateType]*regexp2.Regexp{
	AltFinalDescender: regexp2.MustCompile(`[رزنىي]$`, regexp2.None),
	AltFinalLoop:      regexp2.MustCompile(`[مقوؤه]$`, regexp2.None),
}

// matchPositions returns the rune offsets at which re matches s, in order.
func matchPositions(re *regexp2.Regexp, s string) []int {
	var out []int
	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, m.Index)
		m, err = re.FindNextMatch(m)
	}
	return out
}

// pairAllowed applies the hard exclusions on elongation pairs. These are
// calligraphic facts: the listed joins have fixed-width strokes in every
// mushaf hand and must never receive kashida.
func pairAllowed(first, second rune) bool {
	if first == quran.Lam {
		switch second {
		case quran.Kaf, quran.Dal, quran.Thal, quran.TehMarbuta, quran.Heh:
			return false
		}
	}
	// Hamza-adjacent joins keep their short form.
	if first == quran.YehHamza && quran.IsAscendant(second) {
		return false
	}
	if second == quran.WawHamza || second == quran.YehHamza {
		return false
	}
	return true
}
