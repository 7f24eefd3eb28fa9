/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders positioned page layouts to SVG, PDF and PNG.
// All backends consume the same draw lists: outlines are in font design
// units with +Y up, so every backend applies the Y flip when mapping to
// its own top-left coordinate space.
package export

import (
	"mushafkit/internal/render"
	"mushafkit/internal/tajweed"
)

// Page is one laid-out page ready for export.
type Page struct {
	Number int
	Lines  []render.Result
}

// Color is an sRGB triple.
type Color struct {
	R, G, B uint8
}

// Options controls page geometry, in points for PDF/SVG and scaled by
// DPI for PNG. Zero values fall back to an A4-ish mushaf page.
//
//nolint:revive // keep options grouped and explicit for clarity
type Options struct {
	PageWidth  float64 // pt
	PageHeight float64 // pt
	Margin     float64 // pt
	FontSize   float64 // pt per em
	LineHeight float64 // pt between baselines; defaults to FontSize * 1.9
	Upem       int     // font design units per em
	Colored    bool    // apply the tajweed palette
	DPI        int     // PNG only
	Pages      []int   // if empty, export all pages
}

func (o Options) withDefaults() Options {
	if o.PageWidth <= 0 {
		o.PageWidth = 420
	}
	if o.PageHeight <= 0 {
		o.PageHeight = 650
	}
	if o.Margin <= 0 {
		o.Margin = 28
	}
	if o.FontSize <= 0 {
		o.FontSize = 22
	}
	if o.LineHeight <= 0 {
		o.LineHeight = o.FontSize * 1.9
	}
	if o.Upem <= 0 {
		o.Upem = 1000
	}
	if o.DPI <= 0 {
		o.DPI = 300
	}
	return o
}

// lineGeom maps one line's font-unit coordinates to page points.
type lineGeom struct {
	originX   float64 // left edge of the line box
	baselineY float64 // baseline in page coordinates (+Y down)
	scaleX    float64 // font units -> pt, including the plan's x-scale
	scaleY    float64 // font units -> pt
}

// geometry places line i of a page. Lines stack top to bottom and are
// vertically centered inside their line box using the draw list bounds.
func geometry(opt Options, lineIndex int, dl *render.DrawList) lineGeom {
	k := opt.FontSize / float64(opt.Upem)
	top := opt.Margin + float64(lineIndex)*opt.LineHeight
	mid := (dl.YMin + dl.YMax) / 2
	return lineGeom{
		originX:   opt.Margin,
		baselineY: top + opt.LineHeight/2 + mid*k,
		scaleX:    k * dl.XScale,
		scaleY:    k,
	}
}

// pt maps a font-unit point (gx relative to the line origin, gy on the
// baseline) into page coordinates with the Y flip.
func (g lineGeom) pt(gx, gy float64) (float64, float64) {
	return g.originX + gx*g.scaleX, g.baselineY - gy*g.scaleY
}

// classPalette maps tajweed color classes to export colors.
var classPalette = map[tajweed.ColorClass]Color{
	tajweed.Ghunnah:          {255, 126, 30},
	tajweed.IdghamGhunnah:    {22, 151, 119},
	tajweed.IdghamNoGhunnah:  {149, 165, 166},
	tajweed.IdghamShafawi:    {88, 184, 0},
	tajweed.Ikhfa:            {148, 0, 211},
	tajweed.IkhfaShafawi:     {213, 0, 183},
	tajweed.Iqlab:            {38, 191, 253},
	tajweed.Qalqalah:         {221, 0, 8},
	tajweed.Tafkhim:          {199, 91, 57},
	tajweed.HamzatWasl:       {170, 170, 170},
	tajweed.Silent:           {170, 170, 170},
	tajweed.MaddNormal:       {83, 127, 255},
	tajweed.MaddPermissible:  {64, 80, 255},
	tajweed.MaddObligatory:   {33, 68, 193},
	tajweed.MaddNecessary:    {0, 14, 188},
	tajweed.MaddLeen:         {91, 181, 224},
	tajweed.MaddSilah:        {123, 31, 162},
}

// glyphColor resolves a glyph's fill color. Uncolored exports and
// unclassified glyphs are black.
func glyphColor(g render.DrawGlyph, colored bool) Color {
	if colored && g.HasClass {
		if c, ok := classPalette[g.Class]; ok {
			return c
		}
	}
	return Color{}
}

func pageIndexes(total int, specific []int) []int {
	if len(specific) == 0 {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return specific
}
