/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package justify

// Madinah search: a fixed, hand-ordered cascade of stretch/alternate
// stages. Stage order reproduces the convention's visual priorities: shy
// final alternates and tooth elongations come before the wide generic
// elongations, and each context is revisited at deeper levels only after
// every context has had its shallow pass. The ordering is part of the
// typesetting convention; reordering stages changes which letters absorb
// the slack and therefore the page's look.

type stageOp int

const (
	opKashida stageOp = iota
	opAlternate
)

type cascadeStage struct {
	op      stageOp
	stretch StretchType
	alt     AlternateType
	levels  uint32
}

var madinahCascade = []cascadeStage{
	{op: opAlternate, alt: AltFinalDescender, levels: 2},
	{op: opKashida, stretch: StretchBehGroup, levels: 2},
	{op: opKashida, stretch: StretchFinalAscendant, levels: 3},
	{op: opAlternate, alt: AltFinalLoop, levels: 2},
	{op: opKashida, stretch: StretchBeforeRehZain, levels: 2},
	{op: opKashida, stretch: StretchKaf, levels: 2},
	{op: opKashida, stretch: StretchSeenGroup, levels: 2},
	{op: opKashida, stretch: StretchMedial, levels: 2},
	{op: opAlternate, alt: AltFinalDescender, levels: 4},
	{op: opKashida, stretch: StretchBehGroup, levels: 4},
	{op: opKashida, stretch: StretchFinalAscendant, levels: 6},
	{op: opAlternate, alt: AltFinalLoop, levels: 4},
	{op: opKashida, stretch: StretchBeforeRehZain, levels: 4},
	{op: opKashida, stretch: StretchKaf, levels: 4},
	{op: opKashida, stretch: StretchSeenGroup, levels: 4},
	{op: opKashida, stretch: StretchMedial, levels: 4},
	{op: opAlternate, alt: AltFinalDescender, levels: 12},
	{op: opAlternate, alt: AltFinalLoop, levels: 12},
	{op: opKashida, stretch: StretchMedial, levels: 6},
}

// searchMadinah walks the cascade until the gap closes, a stage reports
// overflow, or all stages are exhausted. A stage reporting overflow means
// the line cannot take one more step of that stage's width, and the whole
// cascade short-circuits.
func (ji *justInfo) searchMadinah() {
	for _, st := range madinahCascade {
		if ji.full() || ji.err != nil {
			return
		}
		if ji.runStage(st) {
			return
		}
	}
}

// runStage applies one cascade stage across the line, line-end first, one
// level at a time. Reports whether an overflow occurred.
func (ji *justInfo) runStage(st cascadeStage) bool {
	for level := uint32(1); level <= st.levels; level++ {
		for w := len(ji.words) - 1; w >= 0; w-- {
			for s := len(ji.words[w].word.Subwords) - 1; s >= 0; s-- {
				var ovf bool
				if st.op == opKashida {
					ovf = ji.stageKashida(w, s, st.stretch, level)
				} else {
					ovf = ji.stageAlternate(w, s, st.alt, level)
				}
				if ovf {
					return true
				}
				if ji.full() {
					return false
				}
			}
		}
	}
	return false
}

func (ji *justInfo) stageKashida(w, s int, typ StretchType, level uint32) bool {
	for _, pos := range ji.kashidaSites(w, s, typ, level) {
		committed, ovf := ji.applyKashida(w, s, pos, typ)
		if ovf {
			return true
		}
		if committed && ji.full() {
			return false
		}
	}
	return false
}

func (ji *justInfo) stageAlternate(w, s int, typ AlternateType, level uint32) bool {
	for _, pos := range ji.alternateSites(w, s, typ, level) {
		committed, ovf := ji.applyAlternate(w, s, pos)
		if ovf {
			return true
		}
		if committed && ji.full() {
			return false
		}
	}
	return false
}
