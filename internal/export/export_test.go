/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mushafkit/internal/render"
	"mushafkit/internal/shaping"
	"mushafkit/internal/tajweed"
)

func glyph(x float64, class tajweed.ColorClass, hasClass bool) render.DrawGlyph {
	return render.DrawGlyph{
		GlyphID: 1,
		Outline: &shaping.Outline{
			Segments: []shaping.PathSegment{
				{Op: shaping.MoveTo, Pts: [3]shaping.Point{{X: 0, Y: 0}}},
				{Op: shaping.LineTo, Pts: [3]shaping.Point{{X: 400, Y: 0}}},
				{Op: shaping.LineTo, Pts: [3]shaping.Point{{X: 400, Y: 600}}},
				{Op: shaping.QuadTo, Pts: [3]shaping.Point{{X: 200, Y: 800}, {X: 0, Y: 600}}},
				{Op: shaping.CubeTo, Pts: [3]shaping.Point{{X: -20, Y: 400}, {X: -20, Y: 200}, {X: 0, Y: 0}}},
			},
			YMin: 0,
			YMax: 800,
		},
		X:        x,
		Y:        0,
		Class:    class,
		HasClass: hasClass,
	}
}

func samplePages() []Page {
	line := render.Result{
		Draw: render.DrawList{
			Glyphs: []render.DrawGlyph{
				glyph(0, tajweed.Qalqalah, true),
				glyph(500, 0, false),
			},
			Width:  900,
			XScale: 1,
			YMin:   0,
			YMax:   800,
		},
	}
	return []Page{{Number: 1, Lines: []render.Result{line, line}}}
}

func TestGeometryCentersLineAndFlipsY(t *testing.T) {
	opt := Options{}.withDefaults()
	dl := &render.DrawList{YMin: 0, YMax: 1000, XScale: 0.5}
	g := geometry(opt, 0, dl)

	if g.originX != opt.Margin {
		t.Errorf("originX = %g, want margin %g", g.originX, opt.Margin)
	}
	if g.scaleX != g.scaleY*0.5 {
		t.Errorf("scaleX = %g, want compressed by the plan's 0.5", g.scaleX)
	}
	// +Y up in font units maps to decreasing page Y.
	_, y0 := g.pt(0, 0)
	_, y1 := g.pt(0, 500)
	if y1 >= y0 {
		t.Errorf("Y not flipped: y(500)=%g y(0)=%g", y1, y0)
	}
	// Second line sits one line box lower.
	g2 := geometry(opt, 1, dl)
	if step := g2.baselineY - g.baselineY; math.Abs(step-opt.LineHeight) > 1e-9 {
		t.Errorf("baseline step = %g, want %g", step, opt.LineHeight)
	}
}

func TestGlyphColor(t *testing.T) {
	colored := glyph(0, tajweed.Qalqalah, true)
	if c := glyphColor(colored, true); c == (Color{}) {
		t.Errorf("classified glyph stayed black with the palette on")
	}
	if c := glyphColor(colored, false); c != (Color{}) {
		t.Errorf("palette off still colored the glyph: %+v", c)
	}
	plain := glyph(0, 0, false)
	if c := glyphColor(plain, true); c != (Color{}) {
		t.Errorf("unclassified glyph colored: %+v", c)
	}
}

func TestPaletteCoversEveryClass(t *testing.T) {
	classes := []tajweed.ColorClass{
		tajweed.Ghunnah, tajweed.IdghamGhunnah, tajweed.IdghamNoGhunnah,
		tajweed.IdghamShafawi, tajweed.Ikhfa, tajweed.IkhfaShafawi,
		tajweed.Iqlab, tajweed.Qalqalah, tajweed.Tafkhim, tajweed.HamzatWasl,
		tajweed.Silent, tajweed.MaddNormal, tajweed.MaddPermissible,
		tajweed.MaddObligatory, tajweed.MaddNecessary, tajweed.MaddLeen,
		tajweed.MaddSilah,
	}
	for _, c := range classes {
		if _, ok := classPalette[c]; !ok {
			t.Errorf("class %v has no export color", c)
		}
	}
}

func TestExportSVGPages(t *testing.T) {
	dir := t.TempDir()
	opt := Options{Colored: true}
	if err := ExportSVGPages(samplePages(), dir, opt); err != nil {
		t.Fatalf("ExportSVGPages: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "page-1.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "</svg>") {
		t.Fatalf("not an svg document")
	}
	if got := strings.Count(s, "<path"); got != 4 {
		t.Errorf("path count = %d, want 4 (2 glyphs x 2 lines)", got)
	}
	// The qalqalah glyph carries its palette fill.
	if !strings.Contains(s, "fill=\"#dd0008\"") {
		t.Errorf("qalqalah fill missing")
	}
	if !strings.Contains(s, "fill=\"#000000\"") {
		t.Errorf("unclassified glyph not black")
	}
	// All three curve command families survive serialization.
	for _, cmd := range []string{"M", "L", "Q", "C"} {
		if !strings.Contains(s, cmd) {
			t.Errorf("svg path lacks %s commands", cmd)
		}
	}
}

func TestExportPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mushaf.pdf")
	if err := ExportPDF(samplePages(), out, Options{}); err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("output is not a PDF (%d bytes)", len(data))
	}
}

func TestExportPNGPages(t *testing.T) {
	dir := t.TempDir()
	opt := Options{DPI: 36} // keep the raster small
	if err := ExportPNGPages(samplePages(), dir, opt); err != nil {
		t.Fatalf("ExportPNGPages: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "page-1.png"))
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// 420pt x 650pt at 36 DPI.
	if w := img.Bounds().Dx(); w != 210 {
		t.Errorf("width = %d px, want 210", w)
	}
	if h := img.Bounds().Dy(); h != 325 {
		t.Errorf("height = %d px, want 325", h)
	}
}

func TestPageSelection(t *testing.T) {
	dir := t.TempDir()
	pages := append(samplePages(), Page{Number: 2, Lines: samplePages()[0].Lines})
	opt := Options{Pages: []int{1}}
	if err := ExportSVGPages(pages, dir, opt); err != nil {
		t.Fatalf("ExportSVGPages: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page-2.svg")); err != nil {
		t.Errorf("selected page missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page-1.svg")); err == nil {
		t.Errorf("unselected page exported")
	}
}
