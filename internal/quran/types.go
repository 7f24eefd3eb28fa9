/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package quran

// This file defines the core data model for mushaf page layout: lines, line
// kinds, mushaf variants and justification styles. Text is always stored in
// logical order; bidi resolution is assumed to have happened upstream.

// MushafVariant selects a typesetting convention. The variant decides which
// kashida/alternate search policy the justification engine runs and which
// tajweed pattern set applies.
type MushafVariant int

const (
	// Madinah is the Madinah 15-line convention.
	Madinah MushafVariant = iota
	// IndoPak is the IndoPak 15-line convention.
	IndoPak
)

func (v MushafVariant) String() string {
	switch v {
	case Madinah:
		return "madinah"
	case IndoPak:
		return "indopak"
	}
	return "unknown"
}

// ParseVariant maps a configuration string to a MushafVariant.
func ParseVariant(s string) (MushafVariant, bool) {
	switch s {
	case "madinah", "":
		return Madinah, true
	case "indopak":
		return IndoPak, true
	}
	return Madinah, false
}

// JustificationStyle selects how a line is brought to its target width.
type JustificationStyle int

const (
	// StyleStretch uses space widening and calligraphic elongation (default).
	StyleStretch JustificationStyle = iota
	// StyleScaleOnly applies a uniform horizontal scale and nothing else.
	StyleScaleOnly
)

// LineType classifies a physical mushaf line.
type LineType int

const (
	// LineContent is an ordinary ayah-text line.
	LineContent LineType = iota
	// LineSurahHeader is a decorated surah name line; excluded from tajweed
	// classification and justified by its width ratio only.
	LineSurahHeader
	// LineBasmala is the basmala line opening a surah.
	LineBasmala
)

// Line is one physical line of a mushaf page. Immutable once constructed.
type Line struct {
	// Text is the logical-order Arabic text of the line.
	Text string
	// Type classifies the line.
	Type LineType
	// WidthRatio is the fraction of the column width this line should span.
	// Content lines use 1.0; headers and short closing lines deviate.
	WidthRatio float64
}

// NewContentLine returns a full-width content line.
func NewContentLine(text string) Line {
	return Line{Text: text, Type: LineContent, WidthRatio: 1}
}

// Page is one mushaf page: an ordered set of lines plus its page number
// (1-based, following printed mushaf numbering).
type Page struct {
	Number int
	Lines  []Line
}
