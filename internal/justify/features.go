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
	"mushafkit/internal/shaping"
)

// FeatureTag enumerates the closed stylistic-variant vocabulary the fonts
// expose. The numeric payloads select elongation steps or alternate forms;
// values outside the documented caps select nothing in the font.
type FeatureTag int

const (
	// FeatKashida (cv01) elongates the joining stroke leaving the tagged
	// letter. Value = elongation step, capped at MaxKashidaLevel. The same
	// tag also selects final-letter alternate forms, capped at
	// MaxAlternateLevel.
	FeatKashida FeatureTag = iota
	// FeatKashidaTail (cv02) widens the receiving side of the connection on
	// the second letter of an elongated pair.
	FeatKashidaTail
	// FeatDiacriticStretch (cv03) stretches a fatha (or shadda+fatha stack)
	// riding an elongated letter so the mark keeps covering the stroke.
	FeatDiacriticStretch
	// FeatLigBehHeh .. FeatLigGeneric (cv11..cv18) select the ligature
	// decomposition matching an elongated letter pair. Exactly one applies
	// per kashida site.
	FeatLigBehHeh
	FeatLigBehBeh
	FeatLigLamMeem
	FeatLigLamAlef
	FeatLigSeenGroup
	FeatLigHahGroup
	FeatLigFehQaf
	FeatLigGeneric
)

// Elongation caps. Values come from the glyph repertoire of the target
// fonts: kashida connections exist in 6 widths, final alternates in 12.
const (
	MaxKashidaLevel   = 6
	MaxAlternateLevel = 12
)

var featureTags = map[FeatureTag]string{
	FeatKashida:          "cv01",
	FeatKashidaTail:      "cv02",
	FeatDiacriticStretch: "cv03",
	FeatLigBehHeh:        "cv11",
	FeatLigBehBeh:        "cv12",
	FeatLigLamMeem:       "cv13",
	FeatLigLamAlef:       "cv14",
	FeatLigSeenGroup:     "cv15",
	FeatLigHahGroup:      "cv16",
	FeatLigFehQaf:        "cv17",
	FeatLigGeneric:       "cv18",
}

// Tag returns the 4-char OpenType tag for the shaper boundary.
func (t FeatureTag) Tag() string { return featureTags[t] }

func (t FeatureTag) String() string { return featureTags[t] }

// FeatureOverride is one committed feature activation over a rune range of
// a line. Start/End are rune offsets into the line text, End exclusive.
type FeatureOverride struct {
	Feature FeatureTag
	Value   uint32
	Start   int
	End     int
}

// ShaperFeature converts the override into the shaping boundary form.
func (f FeatureOverride) ShaperFeature() shaping.Feature {
	return shaping.Feature{Tag: f.Feature.Tag(), Value: f.Value, Start: f.Start, End: f.End}
}

// ligatureFeature picks the cv11..cv18 decomposition for an elongated
// letter pair. The ladder is keyed on the identity of the two letters and
// the pair's position within its subword; unlisted pairs take the generic
// decomposition.
func ligatureFeature(first, second rune, firstInitial, secondFinal bool) FeatureTag {
	switch {
	case quran.IsBehGroup(first) && second == quran.Heh:
		return FeatLigBehHeh
	case quran.IsBehGroup(first) && quran.IsBehGroup(second):
		return FeatLigBehBeh
	case first == quran.Lam && second == quran.Meem:
		return FeatLigLamMeem
	case first == quran.Lam && secondFinal && quran.IsAscendant(second):
		return FeatLigLamAlef
	case first == quran.Seen || first == quran.Sheen || first == quran.Sad || first == quran.Dad:
		return FeatLigSeenGroup
	case first == quran.Jeem || first == quran.Hah || first == quran.Khah:
		return FeatLigHahGroup
	case (first == quran.Feh || first == quran.Qaf) && !firstInitial:
		return FeatLigFehQaf
	default:
		return FeatLigGeneric
	}
}
