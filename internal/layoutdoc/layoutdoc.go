/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package layoutdoc parses precomputed page-layout documents: a glyph
// outline table keyed by codepoint (with size variants for elongation)
// plus per-page, per-line glyph runs with absolute positions. Documents
// are produced offline; this package validates them against an embedded
// JSON schema and converts lines into draw lists so the mark solver and
// exporters can run without a live shaper.
package layoutdoc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"mushafkit/internal/render"
	"mushafkit/internal/shaping"
)

//go:embed layout.schema.json
var schemaBytes []byte

// document is the raw JSON shape.
type document struct {
	Version  int                        `json:"version"`
	Upem     int                        `json:"upem"`
	Outlines map[string][]outlineRecord `json:"outlines"`
	Pages    []pageRecord               `json:"pages"`
}

type outlineRecord struct {
	Commands []commandRecord `json:"commands"`
	YMin     float64         `json:"y_min"`
	YMax     float64         `json:"y_max"`
}

type commandRecord struct {
	Op  string       `json:"op"`
	Pts [][2]float64 `json:"pts"`
}

type pageRecord struct {
	Page  int          `json:"page"`
	Lines []lineRecord `json:"lines"`
}

type lineRecord struct {
	XOrigin float64        `json:"x_origin"`
	XScale  float64        `json:"x_scale"`
	Text    string         `json:"text"`
	Run     []placedRecord `json:"run"`
}

type placedRecord struct {
	CP      int     `json:"cp"`
	Variant int     `json:"variant"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Cluster int     `json:"cluster"`
}

// Line is one positioned line of a precomputed page.
type Line struct {
	XOrigin float64
	XScale  float64
	// Text is the line's source text, when the document carries it.
	// It enables cluster-based lookups like mark detection.
	Text string
	run  []placedRecord
}

// Document is a parsed and validated page-layout document.
type Document struct {
	Upem     int
	outlines map[int][]*shaping.Outline
	pages    map[int][]Line
	maxPage  int
}

// Validate checks raw document bytes against the layout schema and
// returns one error per violation.
func Validate(data []byte) []error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return []error{err}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, fmt.Errorf("%s", e))
	}
	return errs
}

// Parse validates and decodes a page-layout document.
func Parse(data []byte) (*Document, error) {
	if errs := Validate(data); len(errs) > 0 {
		return nil, fmt.Errorf("layout document invalid: %w", errs[0])
	}
	var raw document
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode layout document: %w", err)
	}

	doc := &Document{
		Upem:     raw.Upem,
		outlines: make(map[int][]*shaping.Outline, len(raw.Outlines)),
		pages:    make(map[int][]Line, len(raw.Pages)),
	}
	for key, variants := range raw.Outlines {
		cp, err := strconv.Atoi(key)
		if err != nil || cp < 0 {
			return nil, fmt.Errorf("outline key %q is not a codepoint", key)
		}
		outs := make([]*shaping.Outline, 0, len(variants))
		for i, v := range variants {
			o, err := convertOutline(v)
			if err != nil {
				return nil, fmt.Errorf("outline %s variant %d: %w", key, i, err)
			}
			outs = append(outs, o)
		}
		doc.outlines[cp] = outs
	}
	for _, p := range raw.Pages {
		if _, dup := doc.pages[p.Page]; dup {
			return nil, fmt.Errorf("duplicate page %d", p.Page)
		}
		lines := make([]Line, 0, len(p.Lines))
		for li, l := range p.Lines {
			for ri, pl := range l.Run {
				vs, ok := doc.outlines[pl.CP]
				if !ok {
					return nil, fmt.Errorf("page %d line %d run %d: codepoint %d has no outline", p.Page, li+1, ri, pl.CP)
				}
				if pl.Variant < 0 || pl.Variant >= len(vs) {
					return nil, fmt.Errorf("page %d line %d run %d: variant %d out of range", p.Page, li+1, ri, pl.Variant)
				}
			}
			lines = append(lines, Line{XOrigin: l.XOrigin, XScale: l.XScale, Text: l.Text, run: l.Run})
		}
		doc.pages[p.Page] = lines
		if p.Page > doc.maxPage {
			doc.maxPage = p.Page
		}
	}
	return doc, nil
}

func convertOutline(rec outlineRecord) (*shaping.Outline, error) {
	out := &shaping.Outline{YMin: rec.YMin, YMax: rec.YMax}
	out.Segments = make([]shaping.PathSegment, 0, len(rec.Commands))
	for _, c := range rec.Commands {
		var op shaping.SegmentOp
		var want int
		switch c.Op {
		case "M":
			op, want = shaping.MoveTo, 1
		case "L":
			op, want = shaping.LineTo, 1
		case "Q":
			op, want = shaping.QuadTo, 2
		case "C":
			op, want = shaping.CubeTo, 3
		default:
			return nil, fmt.Errorf("unknown path op %q", c.Op)
		}
		if len(c.Pts) != want {
			return nil, fmt.Errorf("op %s wants %d points, got %d", c.Op, want, len(c.Pts))
		}
		var seg shaping.PathSegment
		seg.Op = op
		for i, p := range c.Pts {
			seg.Pts[i] = shaping.Point{X: p[0], Y: p[1]}
		}
		out.Segments = append(out.Segments, seg)
	}
	return out, nil
}

// PageCount returns the highest page number present.
func (d *Document) PageCount() int { return d.maxPage }

// Lines returns the positioned lines of the given page.
func (d *Document) Lines(page int) ([]Line, error) {
	lines, ok := d.pages[page]
	if !ok {
		return nil, fmt.Errorf("page %d not in layout document", page)
	}
	return lines, nil
}

// Outline returns the outline variants for a codepoint.
func (d *Document) Outline(cp int) ([]*shaping.Outline, bool) {
	vs, ok := d.outlines[cp]
	return vs, ok
}

// DrawList converts one precomputed line into a draw list. Outlines are
// shared with the document's table; callers that mutate positions (the
// mark solver does) get fresh DrawGlyph slices but shared outline paths.
func (d *Document) DrawList(page, line int) (*render.DrawList, error) {
	lines, err := d.Lines(page)
	if err != nil {
		return nil, err
	}
	if line < 0 || line >= len(lines) {
		return nil, fmt.Errorf("line %d out of range on page %d", line, page)
	}
	l := lines[line]

	dl := &render.DrawList{XScale: l.XScale}
	var width float64
	first := true
	for _, pl := range l.run {
		out := d.outlines[pl.CP][pl.Variant]
		dl.Glyphs = append(dl.Glyphs, render.DrawGlyph{
			GlyphID: uint32(pl.CP),
			Cluster: pl.Cluster,
			Outline: out,
			X:       l.XOrigin + pl.X,
			Y:       pl.Y,
		})
		if first || pl.Y+out.YMin < dl.YMin {
			dl.YMin = pl.Y + out.YMin
		}
		if first || pl.Y+out.YMax > dl.YMax {
			dl.YMax = pl.Y + out.YMax
		}
		first = false
		if pl.X > width {
			width = pl.X
		}
	}
	dl.Width = width
	return dl, nil
}
