/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package justify reconciles a line's shaped width with its target width.
// Compression is a uniform horizontal scale; stretching widens spaces first
// and then inserts calligraphic elongation (kashida) and alternate glyph
// forms at legal connection sites, re-measuring through the shaper after
// every speculative edit and committing only edits that stay inside the
// target width.
package justify

import (
	"math"

	"mushafkit/internal/quran"
	"mushafkit/internal/segment"
	"mushafkit/internal/shaping"
)

// widthEpsilon absorbs rounding when comparing widths in font units.
const widthEpsilon = 0.25

// Per-space stretch caps in font design units, independent of line length.
const (
	maxSimpleSpaceStretch = 100
	maxAyaSpaceStretch    = 200
)

// Plan is the committed justification result for one line. Applying its
// features and space widths to the line never yields a rendered width above
// Desired by more than a rounding epsilon; under-fill is possible and is
// detected by comparing Width against Desired.
type Plan struct {
	// WordWidths are the final per-word shaped widths, in order.
	WordWidths []float64
	// Overrides are the committed feature activations, with line-relative
	// rune ranges.
	Overrides []FeatureOverride
	// SimpleSpace and AyaSpace are the final space widths.
	SimpleSpace float64
	AyaSpace    float64
	// XScale is the uniform horizontal scale (1 unless compressing or
	// style is scale-only).
	XScale float64
	// NaturalWidth is the unjustified shaped width, Desired the target,
	// Width the achieved width after applying the plan.
	NaturalWidth float64
	Desired      float64
	Width        float64
}

// Features returns the plan's overrides as shaper features for a whole-line
// re-shape.
func (p *Plan) Features() []shaping.Feature {
	out := make([]shaping.Feature, len(p.Overrides))
	for i, o := range p.Overrides {
		out[i] = o.ShaperFeature()
	}
	return out
}

// SpaceWidth returns the plan's width for a space of the given class.
func (p *Plan) SpaceWidth(c segment.SpaceClass) float64 {
	if c == segment.SpaceAyaEnd {
		return p.AyaSpace
	}
	return p.SimpleSpace
}

// Engine runs justification against one shaper.
type Engine struct {
	shaper shaping.Shaper
}

// NewEngine returns an engine bound to the given shaper resource.
func NewEngine(s shaping.Shaper) *Engine {
	return &Engine{shaper: s}
}

// Justify computes the spacing/feature plan that brings li to desiredWidth.
// spaceWidth is the font's natural space advance. Non-convergence is not an
// error: when the available stretch budget cannot reach desiredWidth the
// returned plan reports the best achieved width.
func (e *Engine) Justify(li *segment.LineTextInfo, desiredWidth, spaceWidth float64,
	variant quran.MushafVariant, style quran.JustificationStyle) (*Plan, error) {

	ji, err := newJustInfo(e, li, desiredWidth, spaceWidth)
	if err != nil {
		return nil, err
	}

	natural := ji.total()
	switch {
	case natural <= 0:
		return ji.plan(1, natural), nil

	case desiredWidth < natural-widthEpsilon:
		// Compression never uses kashida; shrink uniformly.
		return ji.plan(desiredWidth/natural, natural), nil

	case style == quran.StyleScaleOnly:
		return ji.plan(desiredWidth/natural, natural), nil
	}

	// Stretch, default style. Spaces first, up to their caps.
	if ji.stretchSpaces() {
		return ji.plan(1, natural), nil
	}

	// Kashida/alternate search, variant-specific ordering.
	switch variant {
	case quran.IndoPak:
		ji.searchIndoPak()
	default:
		ji.searchMadinah()
	}
	if ji.err != nil {
		return nil, ji.err
	}

	// Final full-justify fallback: whatever gap remains is spread evenly
	// over every space. With no spaces the line stays at its best width.
	ji.distributeRemainder()
	return ji.plan(1, natural), nil
}

// workingWord is the mutable per-word search state.
type workingWord struct {
	word  *segment.WordInfo
	width float64
	// feats are committed shaper features with word-relative ranges.
	feats []shaping.Feature
	// kashida and alternate track accumulated levels per word-relative
	// letter offset.
	kashida   map[int]uint32
	alternate map[int]uint32
}

// justInfo is the engine's working state for one line.
type justInfo struct {
	eng     *Engine
	li      *segment.LineTextInfo
	words   []workingWord
	desired float64

	simpleSpace, ayaSpace float64
	nSimple, nAya         int

	// err records a shaper failure; the search aborts when set.
	err error
}

func newJustInfo(e *Engine, li *segment.LineTextInfo, desired, spaceWidth float64) (*justInfo, error) {
	ji := &justInfo{
		eng:         e,
		li:          li,
		desired:     desired,
		simpleSpace: spaceWidth,
		ayaSpace:    spaceWidth,
		nSimple:     li.SimpleSpaceCount(),
		nAya:        li.AyaSpaceCount(),
	}
	ji.words = make([]workingWord, len(li.Words))
	for i := range li.Words {
		w := &li.Words[i]
		width, err := ji.measure(w.Text, nil)
		if err != nil {
			return nil, err
		}
		ji.words[i] = workingWord{
			word:      w,
			width:     width,
			kashida:   make(map[int]uint32),
			alternate: make(map[int]uint32),
		}
	}
	return ji, nil
}

// measure shapes text in isolation and sums the advances.
func (ji *justInfo) measure(text string, feats []shaping.Feature) (float64, error) {
	glyphs, err := ji.eng.shaper.Shape(text, feats)
	if err != nil {
		return 0, err
	}
	var w float64
	for _, g := range glyphs {
		w += g.XAdvance
	}
	return w, nil
}

// total is the current line width: word widths plus classified spaces.
func (ji *justInfo) total() float64 {
	var w float64
	for i := range ji.words {
		w += ji.words[i].width
	}
	w += float64(ji.nSimple) * ji.simpleSpace
	w += float64(ji.nAya) * ji.ayaSpace
	return w
}

// gap returns the width still missing; <= 0 means the line is full.
func (ji *justInfo) gap() float64 { return ji.desired - ji.total() }

func (ji *justInfo) full() bool { return ji.gap() <= widthEpsilon }

// stretchSpaces widens spaces up to their caps, aya spaces at double rate.
// Reports whether the budget alone closed the gap.
func (ji *justInfo) stretchSpaces() bool {
	denom := float64(ji.nSimple) + 2*float64(ji.nAya)
	if denom == 0 {
		return ji.full()
	}
	per := ji.gap() / denom
	ji.simpleSpace += math.Min(per, maxSimpleSpaceStretch)
	ji.ayaSpace += math.Min(2*per, maxAyaSpaceStretch)
	return ji.full()
}

// distributeRemainder closes any residual gap by widening every space
// evenly, with no cap. This is the terminal fallback; lines with no spaces
// keep their best-effort width.
func (ji *justInfo) distributeRemainder() {
	g := ji.gap()
	n := ji.nSimple + ji.nAya
	if g <= widthEpsilon || n == 0 {
		return
	}
	per := g / float64(n)
	ji.simpleSpace += per
	ji.ayaSpace += per
}

// tryCommit speculatively applies feats to word w, re-shapes, and commits
// iff the width strictly grows without pushing the line past the target.
// Returns (committed, overflow); overflow means the edit was discarded
// because it would exceed the desired width.
func (ji *justInfo) tryCommit(w int, feats []shaping.Feature) (bool, bool) {
	if ji.err != nil {
		return false, true
	}
	ww := &ji.words[w]
	tentative := mergeFeatures(ww.feats, feats)
	newWidth, err := ji.measure(ww.word.Text, tentative)
	if err != nil {
		ji.err = err
		return false, true
	}
	if newWidth <= ww.width {
		// The font has no wider form for this site; not an overflow.
		return false, false
	}
	if ji.total()-ww.width+newWidth > ji.desired+widthEpsilon {
		return false, true
	}
	ww.feats = tentative
	ww.width = newWidth
	return true, false
}

// mergeFeatures overlays add onto base: an activation with the same tag and
// range replaces the previous value, everything else appends. base is not
// mutated.
func mergeFeatures(base, add []shaping.Feature) []shaping.Feature {
	out := append([]shaping.Feature(nil), base...)
	for _, f := range add {
		replaced := false
		for i := range out {
			if out[i].Tag == f.Tag && out[i].Start == f.Start && out[i].End == f.End {
				out[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return out
}

// plan freezes the working state into a Plan.
func (ji *justInfo) plan(xScale, natural float64) *Plan {
	p := &Plan{
		SimpleSpace:  ji.simpleSpace,
		AyaSpace:     ji.ayaSpace,
		XScale:       xScale,
		NaturalWidth: natural,
		Desired:      ji.desired,
	}
	for i := range ji.words {
		ww := &ji.words[i]
		p.WordWidths = append(p.WordWidths, ww.width)
		for _, f := range ww.feats {
			p.Overrides = append(p.Overrides, FeatureOverride{
				Feature: tagByName(f.Tag),
				Value:   f.Value,
				Start:   ww.word.Start + f.Start,
				End:     ww.word.Start + f.End,
			})
		}
	}
	p.Width = ji.total() * xScale
	return p
}

func tagByName(tag string) FeatureTag {
	for t, name := range featureTags {
		if name == tag {
			return t
		}
	}
	return FeatKashida
}
