/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render re-shapes a justified line and walks the glyphs into an
// abstract draw list: outline references with absolute positions, tajweed
// color classes, word extents for hit-testing, and the line's vertical
// bounds for centering. Coordinates are font design units with +Y up; the
// presentation backend owns the Y flip.
package render

import (
	"fmt"

	"mushafkit/internal/justify"
	"mushafkit/internal/quran"
	"mushafkit/internal/segment"
	"mushafkit/internal/shaping"
	"mushafkit/internal/tajweed"
)

// DrawGlyph is one visible glyph of the draw list.
type DrawGlyph struct {
	GlyphID uint32
	Cluster int
	Outline *shaping.Outline
	X, Y    float64
	// Class is the tajweed color class, valid when HasClass is set.
	Class    tajweed.ColorClass
	HasClass bool
}

// WordBounds is a word's horizontal extent within the line.
type WordBounds struct {
	Word         int
	StartX, EndX float64
}

// DrawList is the positioned line ready for a presentation backend.
type DrawList struct {
	Glyphs []DrawGlyph
	// Width is the line's advance width after justification spacing.
	Width float64
	// XScale is the uniform horizontal scale from the plan.
	XScale float64
	// YMin and YMax bound the drawn outlines vertically.
	YMin, YMax float64
}

// Result bundles the draw list with optional word bounds.
type Result struct {
	Draw  DrawList
	Words []WordBounds
}

// Options tunes a Coordinator.
type Options struct {
	Variant quran.MushafVariant
	// TrackWords enables word-extent collection.
	TrackWords bool
}

// Coordinator positions justified lines against one shaper resource.
type Coordinator struct {
	shaper shaping.Shaper
	opts   Options
}

// NewCoordinator returns a coordinator bound to the shaper.
func NewCoordinator(s shaping.Shaper, opts Options) *Coordinator {
	return &Coordinator{shaper: s, opts: opts}
}

// frameSubpaths is the number of leading frame contours embedded in the
// verse-end numeral glyph, per variant. They are dropped so the caller can
// overlay its own verse frame decoration or a textual digit.
func frameSubpaths(v quran.MushafVariant) int {
	if v == quran.IndoPak {
		return 3
	}
	return 2
}

// Render shapes li with the plan's committed features and emits the draw
// list. classes may be nil when tajweed coloring is off.
func (c *Coordinator) Render(li *segment.LineTextInfo, plan *justify.Plan, classes map[int]tajweed.ColorClass) (*Result, error) {
	glyphs, err := c.shaper.Shape(li.Text, plan.Features())
	if err != nil {
		return nil, fmt.Errorf("render: shape line: %w", err)
	}

	// Total width first: the reverse walk needs the right edge.
	var width float64
	for _, g := range glyphs {
		width += c.advance(li, plan, g)
	}

	res := &Result{Draw: DrawList{Width: width, XScale: plan.XScale}}
	if c.opts.TrackWords {
		res.Words = make([]WordBounds, len(li.Words))
		for i := range res.Words {
			res.Words[i] = WordBounds{Word: i, StartX: width, EndX: 0}
		}
	}

	// Walk right to left: the line's rightmost glyph is last in shaper
	// output, and the cursor retreats from the right edge by each advance.
	x := width
	boundsSet := false
	for i := len(glyphs) - 1; i >= 0; i-- {
		g := glyphs[i]
		adv := c.advance(li, plan, g)
		x -= adv

		if _, isSpace := li.SpaceClassAt(g.Cluster); isSpace {
			continue // spaces contribute no visible mark
		}

		outline, err := c.glyphOutline(li, g)
		if err != nil {
			return nil, err
		}
		if outline == nil {
			continue
		}

		dg := DrawGlyph{
			GlyphID: g.ID,
			Cluster: g.Cluster,
			Outline: outline,
			X:       x + g.XOffset,
			Y:       g.YOffset,
		}
		dg.Class, dg.HasClass = classAt(li, classes, g.Cluster)
		res.Draw.Glyphs = append(res.Draw.Glyphs, dg)

		lo, hi := dg.Y+outline.YMin, dg.Y+outline.YMax
		if !boundsSet {
			res.Draw.YMin, res.Draw.YMax = lo, hi
			boundsSet = true
		} else {
			if lo < res.Draw.YMin {
				res.Draw.YMin = lo
			}
			if hi > res.Draw.YMax {
				res.Draw.YMax = hi
			}
		}

		if c.opts.TrackWords {
			if w := wordFor(li, g.Cluster); w >= 0 {
				wb := &res.Words[w]
				if dg.X < wb.StartX {
					wb.StartX = dg.X
				}
				if end := dg.X + adv; end > wb.EndX {
					wb.EndX = end
				}
			}
		}
	}
	return res, nil
}

// advance resolves a glyph's horizontal advance: space-classified clusters
// take the plan's spacing instead of the shaped advance.
func (c *Coordinator) advance(li *segment.LineTextInfo, plan *justify.Plan, g shaping.Glyph) float64 {
	if cls, ok := li.SpaceClassAt(g.Cluster); ok {
		return plan.SpaceWidth(cls)
	}
	return g.XAdvance
}

// glyphOutline fetches the outline, special-casing the verse-end numeral:
// its embedded frame contours are stripped from a copy so the decoration
// can be supplied externally.
func (c *Coordinator) glyphOutline(li *segment.LineTextInfo, g shaping.Glyph) (*shaping.Outline, error) {
	o, err := c.shaper.Outline(g.ID)
	if err != nil {
		return nil, fmt.Errorf("render: outline for glyph %d: %w", g.ID, err)
	}
	if g.Cluster < len(li.Runes) && li.Runes[g.Cluster] == quran.EndOfAyah {
		return dropContours(o, frameSubpaths(c.opts.Variant)), nil
	}
	return o, nil
}

// dropContours returns a copy of o without its first n contours. A contour
// runs from one MoveTo up to the next.
func dropContours(o *shaping.Outline, n int) *shaping.Outline {
	if n <= 0 {
		return o
	}
	c := o.Copy()
	seen := 0
	for i, seg := range c.Segments {
		if seg.Op != shaping.MoveTo {
			continue
		}
		if seen == n {
			c.Segments = c.Segments[i:]
			return c
		}
		seen++
	}
	// Fewer contours than frames to drop: nothing visible remains.
	c.Segments = nil
	return c
}

// classAt resolves the tajweed class for a cluster, carrying a zero-width
// joiner's class forward from the next visible cluster.
func classAt(li *segment.LineTextInfo, classes map[int]tajweed.ColorClass, cluster int) (tajweed.ColorClass, bool) {
	if classes == nil {
		return 0, false
	}
	if c, ok := classes[cluster]; ok {
		return c, true
	}
	if cluster < len(li.Runes) && li.Runes[cluster] == quran.ZWJ {
		for i := cluster + 1; i < len(li.Runes); i++ {
			if c, ok := classes[i]; ok {
				return c, true
			}
			if !quran.IsDiacritic(li.Runes[i]) && li.Runes[i] != quran.ZWJ {
				break
			}
		}
	}
	return 0, false
}

// wordFor returns the index of the word containing the cluster, -1 for
// spaces and out-of-range clusters.
func wordFor(li *segment.LineTextInfo, cluster int) int {
	for i := range li.Words {
		w := &li.Words[i]
		if cluster >= w.Start && cluster < w.End {
			return i
		}
	}
	return -1
}
