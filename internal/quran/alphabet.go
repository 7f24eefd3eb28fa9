/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package quran

// Arabic letter classification tables. The segmenter and the justification
// rule tables are tuned to exactly this alphabet; extending it without
// revisiting the kashida exclusion rules will produce calligraphically wrong
// elongations.

// Named letters used throughout the rule tables.
const (
	Hamza          = 'ء' // ء
	AlefMadda      = 'آ' // آ
	AlefHamzaAbove = 'أ' // أ
	WawHamza       = 'ؤ' // ؤ
	AlefHamzaBelow = 'إ' // إ
	YehHamza       = 'ئ' // ئ
	Alef           = 'ا' // ا
	Beh            = 'ب' // ب
	TehMarbuta     = 'ة' // ة
	Teh            = 'ت' // ت
	Theh           = 'ث' // ث
	Jeem           = 'ج' // ج
	Hah            = 'ح' // ح
	Khah           = 'خ' // خ
	Dal            = 'د' // د
	Thal           = 'ذ' // ذ
	Reh            = 'ر' // ر
	Zain           = 'ز' // ز
	Seen           = 'س' // س
	Sheen          = 'ش' // ش
	Sad            = 'ص' // ص
	Dad            = 'ض' // ض
	Tah            = 'ط' // ط
	Zah            = 'ظ' // ظ
	Ain            = 'ع' // ع
	Ghain          = 'غ' // غ
	Feh            = 'ف' // ف
	Qaf            = 'ق' // ق
	Kaf            = 'ك' // ك
	Lam            = 'ل' // ل
	Meem           = 'م' // م
	Noon           = 'ن' // ن
	Heh            = 'ه' // ه
	Waw            = 'و' // و
	AlefMaksura    = 'ى' // ى
	Yeh            = 'ي' // ي
	Tatweel        = 'ـ' // ـ
	AlefWasla      = 'ٱ' // ٱ
	EndOfAyah      = '۝' // ۝
	ZWJ            = '‍'

	Fatha  = 'َ'
	Damma  = 'ُ'
	Kasra  = 'ِ'
	Shadda = 'ّ'
	Sukun  = 'ْ'
)

// dualJoining letters connect on both sides.
var dualJoining = map[rune]bool{
	Beh: true, Teh: true, Theh: true, Jeem: true, Hah: true, Khah: true,
	Seen: true, Sheen: true, Sad: true, Dad: true, Tah: true, Zah: true,
	Ain: true, Ghain: true, Feh: true, Qaf: true, Kaf: true, Lam: true,
	Meem: true, Noon: true, Heh: true, Yeh: true, YehHamza: true,
}

// rightJoining letters connect only to the letter on their right; the word
// breaks visually after them.
var rightJoining = map[rune]bool{
	Alef: true, AlefMadda: true, AlefHamzaAbove: true, AlefHamzaBelow: true,
	AlefWasla: true, Dal: true, Thal: true, Reh: true, Zain: true,
	Waw: true, WawHamza: true, AlefMaksura: true, TehMarbuta: true,
}

// IsBaseLetter reports whether r is part of the base-letter alphabet: a
// joinable consonant, a right-joining letter, or hamza. Diacritics, digits
// and annotation signs are not base letters.
func IsBaseLetter(r rune) bool {
	return dualJoining[r] || rightJoining[r] || r == Hamza
}

// IsDualJoining reports whether r connects on both sides.
func IsDualJoining(r rune) bool { return dualJoining[r] }

// IsRightJoining reports whether r connects only rightwards, ending the
// joined run it appears in.
func IsRightJoining(r rune) bool { return rightJoining[r] }

// IsArabicDigit reports whether r is an Arabic-Indic or extended
// Arabic-Indic digit. Ayah numbers are set in these digits.
func IsArabicDigit(r rune) bool {
	return (r >= '٠' && r <= '٩') || (r >= '۰' && r <= '۹')
}

// IsDiacritic reports whether r is a harakah, tanween, shadda/sukun, a
// superscript alef, or one of the small high annotation signs; these ride on
// a base letter and never count toward subword topology.
func IsDiacritic(r rune) bool {
	switch {
	case r >= 'ً' && r <= 'ٟ':
		return true
	case r == 'ٰ': // superscript alef
		return true
	case r >= 'ۖ' && r <= 'ۜ': // small high ligatures, stops
		return true
	case r >= '۟' && r <= 'ۨ':
		return true
	case r >= '۪' && r <= 'ۭ':
		return true
	case r >= 'ࣰ' && r <= 'ࣳ': // open tanween (IndoPak)
		return true
	}
	return false
}

// IsAscendant reports whether r is a tall final letter (alef, lam, kaf and
// the hamza-bearing alef forms). Kashida before a final ascendant stretches
// at roughly double rate to keep the joining stroke's slope.
func IsAscendant(r rune) bool {
	switch r {
	case Alef, AlefMadda, AlefHamzaAbove, AlefHamzaBelow, AlefWasla, Lam, Kaf:
		return true
	}
	return false
}

// IsBehGroup reports whether r takes the beh-like tooth form in initial and
// medial position.
func IsBehGroup(r rune) bool {
	switch r {
	case Beh, Teh, Theh, Noon, Yeh, YehHamza:
		return true
	}
	return false
}
