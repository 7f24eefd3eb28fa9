/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shaping

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/harfbuzz"
	"github.com/go-text/typesetting/language"
)

// ErrClosed is returned by entry points invoked after Close.
var ErrClosed = errors.New("shaping: shaper is closed")

// HarfBuzz is the production Shaper backed by go-text/typesetting's
// harfbuzz port. It is constructed once per font and shared read-only
// afterwards; the outline cache is not synchronized, so concurrent use
// requires external locking.
type HarfBuzz struct {
	face *font.Face
	font *harfbuzz.Font

	outlines map[uint32]*Outline
}

// LoadFont parses a TTF/OTF font file and returns a ready shaper.
func LoadFont(path string) (*HarfBuzz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	hb, err := NewHarfBuzz(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return hb, nil
}

// NewHarfBuzz builds a shaper from raw font bytes.
func NewHarfBuzz(data []byte) (*HarfBuzz, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &HarfBuzz{
		face:     face,
		font:     harfbuzz.NewFont(face),
		outlines: make(map[uint32]*Outline),
	}, nil
}

// Shape implements Shaper. The buffer is configured for right-to-left
// Arabic with per-character cluster granularity; feature ranges are given in
// rune offsets of text.
func (hb *HarfBuzz) Shape(text string, features []Feature) ([]Glyph, error) {
	if hb.font == nil {
		return nil, ErrClosed
	}
	runes := []rune(text)

	buf := harfbuzz.NewBuffer()
	buf.Props = harfbuzz.SegmentProperties{
		Direction: harfbuzz.RightToLeft,
		Script:    language.Arabic,
		Language:  language.NewLanguage("ar"),
	}
	buf.ClusterLevel = harfbuzz.MonotoneCharacters
	buf.AddRunes(runes, 0, -1)

	feats, err := convertFeatures(features, len(runes))
	if err != nil {
		return nil, err
	}
	buf.Shape(hb.font, feats)

	out := make([]Glyph, len(buf.Info))
	for i, info := range buf.Info {
		pos := buf.Pos[i]
		out[i] = Glyph{
			ID:       uint32(info.Glyph),
			Cluster:  info.Cluster,
			XAdvance: float64(pos.XAdvance),
			YAdvance: float64(pos.YAdvance),
			XOffset:  float64(pos.XOffset),
			YOffset:  float64(pos.YOffset),
		}
	}
	return out, nil
}

func convertFeatures(features []Feature, textLen int) ([]harfbuzz.Feature, error) {
	if len(features) == 0 {
		return nil, nil
	}
	out := make([]harfbuzz.Feature, 0, len(features))
	for _, f := range features {
		if len(f.Tag) != 4 {
			return nil, fmt.Errorf("shaping: feature tag %q is not 4 ascii chars", f.Tag)
		}
		tag := ot.NewTag(f.Tag[0], f.Tag[1], f.Tag[2], f.Tag[3])
		start, end := f.Start, f.End
		if end == -1 {
			end = textLen
		}
		if start < 0 || end < start {
			return nil, fmt.Errorf("shaping: feature %s has invalid range [%d,%d)", f.Tag, start, end)
		}
		out = append(out, harfbuzz.Feature{Tag: tag, Value: f.Value, Start: start, End: end})
	}
	return out, nil
}

// Outline implements Shaper; results are memoized by glyph id for the life
// of the shaper (outlines are immutable font data).
func (hb *HarfBuzz) Outline(glyphID uint32) (*Outline, error) {
	if hb.face == nil {
		return nil, ErrClosed
	}
	if o, ok := hb.outlines[glyphID]; ok {
		return o, nil
	}
	data := hb.face.GlyphData(font.GID(glyphID))
	go2, ok := data.(font.GlyphOutline)
	if !ok {
		return nil, fmt.Errorf("shaping: glyph %d has no vector outline", glyphID)
	}
	o := convertOutline(go2)
	hb.outlines[glyphID] = o
	return o, nil
}

func convertOutline(src font.GlyphOutline) *Outline {
	o := &Outline{}
	o.Segments = make([]PathSegment, 0, len(src.Segments))
	first := true
	for _, s := range src.Segments {
		var seg PathSegment
		var npts int
		switch s.Op {
		case ot.SegmentOpMoveTo:
			seg.Op, npts = MoveTo, 1
		case ot.SegmentOpLineTo:
			seg.Op, npts = LineTo, 1
		case ot.SegmentOpQuadTo:
			seg.Op, npts = QuadTo, 2
		case ot.SegmentOpCubeTo:
			seg.Op, npts = CubeTo, 3
		default:
			continue
		}
		for i := 0; i < npts; i++ {
			p := Point{X: float64(s.Args[i].X), Y: float64(s.Args[i].Y)}
			seg.Pts[i] = p
			if first {
				o.YMin, o.YMax = p.Y, p.Y
				first = false
			} else {
				if p.Y < o.YMin {
					o.YMin = p.Y
				}
				if p.Y > o.YMax {
					o.YMax = p.Y
				}
			}
		}
		o.Segments = append(o.Segments, seg)
	}
	return o
}

// UnitsPerEm implements Shaper.
func (hb *HarfBuzz) UnitsPerEm() int {
	if hb.face == nil {
		return 0
	}
	return int(hb.face.Upem())
}

// ClearCaches implements Shaper.
func (hb *HarfBuzz) ClearCaches() {
	hb.outlines = make(map[uint32]*Outline)
}

// Close implements Shaper.
func (hb *HarfBuzz) Close() error {
	hb.face = nil
	hb.font = nil
	hb.outlines = nil
	return nil
}
