/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tajweed

// ColorClass tags a character position with the recitation rule governing
// it. Presentation backends map classes to the edition's color palette.
type ColorClass int

const (
	// Ghunnah is nasalization of a doubled noon or meem.
	Ghunnah ColorClass = iota
	// IdghamGhunnah is noon-sakin/tanween assimilation with nasalization.
	IdghamGhunnah
	// IdghamNoGhunnah is assimilation into lam or reh without nasalization.
	IdghamNoGhunnah
	// IdghamShafawi is meem-sakin assimilation into meem.
	IdghamShafawi
	// Ikhfa is concealment of noon-sakin/tanween.
	Ikhfa
	// IkhfaShafawi is concealment of meem-sakin before beh.
	IkhfaShafawi
	// Iqlab converts noon-sakin/tanween to meem before beh.
	Iqlab
	// Qalqalah is the echoed stop on a vowelless qalqalah letter.
	Qalqalah
	// Tafkhim is heavy (velarized) pronunciation.
	Tafkhim
	// HamzatWasl is the connecting hamza, skipped inside a breath group.
	HamzatWasl
	// Silent marks written letters that are not pronounced.
	Silent
	// The six elongation-duration classes.
	MaddNormal      // natural madd, 2 vowels
	MaddPermissible // munfasil, 2-4-6 at the reciter's choice
	MaddObligatory  // muttasil, 4-5
	MaddNecessary   // lazim, 6
	MaddLeen        // soft madd on waw/yeh after fatha
	MaddSilah       // pronoun connection madd
)

var classNames = map[ColorClass]string{
	Ghunnah:         "ghunnah",
	IdghamGhunnah:   "idgham_ghunnah",
	IdghamNoGhunnah: "idgham_wo_ghunnah",
	IdghamShafawi:   "idgham_shafawi",
	Ikhfa:           "ikhfa",
	IkhfaShafawi:    "ikhfa_shafawi",
	Iqlab:           "iqlab",
	Qalqalah:        "qalqalah",
	Tafkhim:         "tafkhim",
	HamzatWasl:      "ham_wasl",
	Silent:          "slnt",
	MaddNormal:      "madda_normal",
	MaddPermissible: "madda_permissible",
	MaddObligatory:  "madda_obligatory",
	MaddNecessary:   "madda_necessary",
	MaddLeen:        "madda_leen",
	MaddSilah:       "madda_silah",
}

func (c ColorClass) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return "unknown"
}
