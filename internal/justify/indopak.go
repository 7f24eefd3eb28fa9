/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package justify

// IndoPak search: a single unified scan, word by word from the line end,
// subwords last first. Within a word, final-letter alternates apply before
// kashida contexts, each context two levels deep. Unlike the Madinah
// cascade an overflowing candidate is simply skipped and the scan proceeds
// to the next site.

var indoPakKashidaOrder = []StretchType{
	StretchBehGroup,
	StretchBeforeRehZain,
	StretchSeenGroup,
	StretchFinalAscendant,
	StretchKaf,
	StretchMedial,
}

var indoPakAlternateOrder = []AlternateType{
	AltFinalDescender,
	AltFinalLoop,
}

const indoPakLevels = 2

func (ji *justInfo) searchIndoPak() {
	for w := len(ji.words) - 1; w >= 0; w-- {
		if ji.full() || ji.err != nil {
			return
		}
		ji.indoPakWord(w)
	}
}

func (ji *justInfo) indoPakWord(w int) {
	subwords := ji.words[w].word.Subwords
	for level := uint32(1); level <= indoPakLevels; level++ {
		for _, alt := range indoPakAlternateOrder {
			for s := len(subwords) - 1; s >= 0; s-- {
				for _, pos := range ji.alternateSites(w, s, alt, level) {
					if _, _ = ji.applyAlternate(w, s, pos); ji.full() || ji.err != nil {
						return
					}
				}
			}
		}
		for _, typ := range indoPakKashidaOrder {
			for s := len(subwords) - 1; s >= 0; s-- {
				for _, pos := range ji.kashidaSites(w, s, typ, level) {
					if _, _ = ji.applyKashida(w, s, pos, typ); ji.full() || ji.err != nil {
						return
					}
				}
			}
		}
	}
}
