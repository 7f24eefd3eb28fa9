/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tajweed

import (
	"github.com/dlclark/regexp2"

	"mushafkit/internal/quran"
)

// The rule patterns are executable specifications of recitation rules. The
// character-class boundaries encode linguistic exceptions; treat the
// patterns as data and change them only against worked recitation examples.
// Positions come from capture offsets, never substring search: several
// groups are textually identical and are told apart by inspecting specific
// characters at specific offsets in the apply functions.
//
// Group names are stable identifiers; the apply table below keys on them.

// tafkhimPattern is pass one: heavy/light pronunciation, qalqalah and the
// silent-letter cases. One alternation, first alternative wins, so the
// sukun-bearing qalqalah branch must precede the bare heavy-letter branch.
var tafkhimPattern = regexp2.MustCompile(
	`(?<qlq>[قطبجد](?=ْ))`+
		`|(?<lamAllah>ل(?=لَّ?هِ?))`+
		`|(?<raSukun>ر(?=ْ))`+
		`|(?<raOpen>ر(?=[َُ]))`+
		`|(?<heavy>[خصضطظغق])`+
		`|(?<lamShams>ل(?=[تثدذرزسشصضطظن]ّ))`+
		`|(?<wasl>ٱ)`+
		`|(?<silentAlef>(?<=و)ا(?=( |$)))`,
	regexp2.None)

// othersPattern is pass two: the nasalization-assimilation classes and the
// six elongation-duration classes. Two variant-specific compilations exist;
// the munfasil-madd and ikhfa branches differ between Madinah and IndoPak
// orthography. The two near-duplicate branches are intentional and must not
// be unified: the IndoPak text writes tanween with the open signs and
// leaves the separating madda unmarked.
var othersMadinah = regexp2.MustCompile(
	nasalizationCommon+
		`|(?<ikhfa>(نْ?|[ًٌٍ])(?= ?[تثجدذزسشصضطظفقك]))`+
		maddCommon+
		`|(?<maddPerm>[اوى]ٓ(?= ))`,
	regexp2.None)

var othersIndoPak = regexp2.MustCompile(
	nasalizationCommon+
		`|(?<ikhfa>(نْ?|[ًࣰٌࣱٍࣲ])(?= ?[تثجدذزسشصضطظفقك]))`+
		maddCommon+
		`|(?<maddPerm>[اوي](?= ?[أإؤئء]))`,
	regexp2.None)

const nasalizationCommon = `(?<idghamG>(نْ?|[ًٌٍ]) (?=[ينمو]))` +
	`|(?<idghamN>(نْ?|[ًٌٍ]) (?=[لر]))` +
	`|(?<iqlab>(نْ?|[ًٌٍ])(?= ?ب)|[ۭۢ])` +
	`|(?<ikhfaSh>مْ(?= ?ب))` +
	`|(?<idghamSh>مْ(?= ?م))` +
	`|(?<ghunnah>[نم](?=ّ))`

const maddCommon = `|(?<maddNec>آ(?=ّ)|[اويى]ٓ(?=[^ء ]ّ?))` +
	`|(?<maddObl>[اويى]ٓ(?=ء))` +
	`|(?<maddLeen>(?<=َ)[وي](?=ْ))` +
	`|(?<maddSilah>ه(?=[ۥۦ]))` +
	`|(?<maddNorm>َ(?=ا([^ً-ْ]|$))|ُ(?=و([^ً-ْ]|$))|ِ(?=ي([^ً-ْ]|$)))`

// capture is the positional payload handed to apply functions: rune offset
// and length of the named group's capture in the page buffer.
type capture struct {
	index  int
	length int
}

// applier mutates the classification at buffer offsets. set overwrites any
// earlier class; clear deletes one (classification is not append-only: a
// later rule may retract an earlier assignment at the same offset).
type applier interface {
	set(off int, c ColorClass)
	setRange(off, n int, c ColorClass)
	clear(off int)
	rune(off int) rune
	has(off int) bool
}

type ruleFunc func(a applier, g capture)

// tafkhimRules maps pass-one group names to their assignments.
var tafkhimRules = map[string]ruleFunc{
	"qlq": func(a applier, g capture) {
		a.setRange(g.index, 2, Qalqalah) // letter + sukun
	},
	"lamAllah": func(a applier, g capture) {
		// Lam of the divine name is heavy only after fatha or damma; the
		// preceding character is inspected here because the lookbehind
		// cannot distinguish the word-initial case.
		if g.index == 0 {
			return
		}
		switch a.rune(g.index - 1) {
		case quran.Fatha, quran.Damma:
			a.setRange(g.index, 2, Tafkhim)
		}
	},
	"raSukun": func(a applier, g capture) {
		// Vowelless reh takes its class from the preceding vowel, walked
		// over any stacked signs. After kasra the reh is light: any class
		// assigned by an earlier rule at this offset is deleted.
		for i := g.index - 1; i >= 0; i-- {
			r := a.rune(i)
			if r == quran.Kasra {
				a.clear(g.index)
				return
			}
			if !quran.IsDiacritic(r) {
				continue
			}
			if r == quran.Fatha || r == quran.Damma {
				break
			}
		}
		a.setRange(g.index, 2, Tafkhim)
	},
	"raOpen": func(a applier, g capture) {
		a.set(g.index, Tafkhim)
	},
	"heavy": func(a applier, g capture) {
		a.set(g.index, Tafkhim)
	},
	"lamShams": func(a applier, g capture) {
		a.set(g.index, Silent)
	},
	"wasl": func(a applier, g capture) {
		a.set(g.index, HamzatWasl)
	},
	"silentAlef": func(a applier, g capture) {
		a.set(g.index, Silent)
	},
}

// othersRules maps pass-two group names to assignments. Both variants share
// this table; only the patterns differ.
var othersRules = map[string]ruleFunc{
	"idghamG": func(a applier, g capture) {
		a.setRange(g.index, g.length, IdghamGhunnah)
	},
	"idghamN": func(a applier, g capture) {
		a.setRange(g.index, g.length, IdghamNoGhunnah)
	},
	"iqlab": func(a applier, g capture) {
		a.setRange(g.index, g.length, Iqlab)
	},
	"ikhfa": func(a applier, g capture) {
		a.setRange(g.index, g.length, Ikhfa)
	},
	"ikhfaSh": func(a applier, g capture) {
		a.setRange(g.index, g.length, IkhfaShafawi)
	},
	"idghamSh": func(a applier, g capture) {
		a.setRange(g.index, g.length, IdghamShafawi)
	},
	"ghunnah": func(a applier, g capture) {
		// A shadda produced by noon/tanween assimilation already carries an
		// idgham class on this letter; plain doubling gets Ghunnah. The
		// match alone cannot tell the two apart, so the offset is queried.
		if a.has(g.index) {
			return
		}
		a.setRange(g.index, 2, Ghunnah) // letter + shadda
	},
	"maddNec": func(a applier, g capture) {
		a.setRange(g.index, g.length, MaddNecessary)
	},
	"maddObl": func(a applier, g capture) {
		a.setRange(g.index, g.length, MaddObligatory)
	},
	"maddPerm": func(a applier, g capture) {
		a.setRange(g.index, g.length, MaddPermissible)
	},
	"maddLeen": func(a applier, g capture) {
		a.setRange(g.index, g.length, MaddLeen)
	},
	"maddSilah": func(a applier, g capture) {
		a.set(g.index, MaddSilah)
	},
	"maddNorm": func(a applier, g capture) {
		// The vowel sign matched; the lengthening letter after it carries
		// the color as well.
		a.setRange(g.index, 2, MaddNormal)
	},
}

var tafkhimGroups = []string{
	"qlq", "lamAllah", "raSukun", "raOpen", "heavy", "lamShams", "wasl", "silentAlef",
}

var othersGroups = []string{
	"idghamG", "idghamN", "iqlab", "ikhfa", "ikhfaSh", "idghamSh", "ghunnah",
	"maddNec", "maddObl", "maddLeen", "maddSilah", "maddNorm", "maddPerm",
}
