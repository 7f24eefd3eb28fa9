/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shaping wraps the external text shaper behind a small, explicit
// resource. All values are in font design units; the caller applies any
// pixel scaling. Direction is always right-to-left Arabic; this adapter is
// not a general shaping API.
package shaping

// Glyph is one shaped glyph as reported by the shaper.
type Glyph struct {
	// ID is the glyph index in the font.
	ID uint32
	// Cluster is the rune index in the source text this glyph maps back to.
	// Cluster granularity is per character so feature ranges can be applied
	// at character offsets.
	Cluster int
	// Advances and offsets in font design units.
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

// Feature is an OpenType feature activation over a rune range of the input
// text. End == -1 means "to the end of the text".
type Feature struct {
	Tag   string // 4-char ascii feature tag, e.g. "cv01"
	Value uint32
	Start int
	End   int
}

// GlobalFeature returns a feature applied to the whole text.
func GlobalFeature(tag string, value uint32) Feature {
	return Feature{Tag: tag, Value: value, Start: 0, End: -1}
}

// SegmentOp is a path construction operator.
type SegmentOp uint8

const (
	MoveTo SegmentOp = iota
	LineTo
	QuadTo
	CubeTo
)

// Point is a path coordinate in font design units, +Y up.
type Point struct {
	X, Y float64
}

// PathSegment is one path command with its points. MoveTo and LineTo use
// Pts[0]; QuadTo uses Pts[0] (control) and Pts[1] (end); CubeTo uses all
// three. Contours are implicitly closed at the next MoveTo.
type PathSegment struct {
	Op  SegmentOp
	Pts [3]Point
}

// Outline is a glyph's vector path plus its vertical extent.
type Outline struct {
	Segments []PathSegment
	YMin     float64
	YMax     float64
}

// Copy returns a deep copy of the outline; used before destructive edits
// such as verse-frame decomposition so cached outlines stay pristine.
func (o *Outline) Copy() *Outline {
	c := &Outline{YMin: o.YMin, YMax: o.YMax}
	c.Segments = append([]PathSegment(nil), o.Segments...)
	return c
}

// Shaper is the boundary to the external text shaper and glyph source.
// Implementations must be safe for sequential reuse; callers own
// synchronization when sharing across goroutines.
type Shaper interface {
	// Shape shapes logical-order Arabic text with the given features and
	// returns glyphs in visual order as emitted by the shaper.
	Shape(text string, features []Feature) ([]Glyph, error)
	// Outline returns the vector outline of a glyph. The returned value is
	// shared and must not be mutated; use Copy for edits.
	Outline(glyphID uint32) (*Outline, error)
	// UnitsPerEm reports the font's design grid size.
	UnitsPerEm() int
	// ClearCaches drops memoized outlines and shaping scratch state. Must be
	// called together with layout cache invalidation whenever the font or a
	// layout-affecting setting changes.
	ClearCaches()
	// Close releases the font resources; the shaper is unusable afterwards.
	Close() error
}
