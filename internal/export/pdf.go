/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"mushafkit/internal/render"
	"mushafkit/internal/shaping"
)

// ExportPDF writes all selected pages into a single multi-page PDF at
// outPath. Glyphs are drawn as filled vector paths, so no font embedding
// is needed and the output stays zoomable.
func ExportPDF(pages []Page, outPath string, opt Options) error {
	opt = opt.withDefaults()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: opt.PageWidth, Ht: opt.PageHeight},
		OrientationStr: "",
	})
	pdf.SetTitle("Mushaf pages", true)

	idx := pageIndexes(len(pages), opt.Pages)
	for _, pi := range idx {
		if pi < 0 || pi >= len(pages) {
			continue
		}
		pg := pages[pi]
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: opt.PageWidth, Ht: opt.PageHeight})

		for li, line := range pg.Lines {
			g := geometry(opt, li, &line.Draw)
			for _, dg := range line.Draw.Glyphs {
				if dg.Outline == nil || len(dg.Outline.Segments) == 0 {
					continue
				}
				c := glyphColor(dg, opt.Colored)
				pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
				tracePDFGlyph(pdf, dg, g)
				pdf.DrawPath("f")
			}
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func tracePDFGlyph(pdf *gofpdf.Fpdf, dg render.DrawGlyph, g lineGeom) {
	open := false
	for _, seg := range dg.Outline.Segments {
		switch seg.Op {
		case shaping.MoveTo:
			if open {
				pdf.ClosePath()
			}
			x, y := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			pdf.MoveTo(x, y)
			open = true
		case shaping.LineTo:
			x, y := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			pdf.LineTo(x, y)
		case shaping.QuadTo:
			cx, cy := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			x, y := g.pt(dg.X+seg.Pts[1].X, dg.Y+seg.Pts[1].Y)
			pdf.CurveTo(cx, cy, x, y)
		case shaping.CubeTo:
			c1x, c1y := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			c2x, c2y := g.pt(dg.X+seg.Pts[1].X, dg.Y+seg.Pts[1].Y)
			x, y := g.pt(dg.X+seg.Pts[2].X, dg.Y+seg.Pts[2].Y)
			pdf.CurveBezierCubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		pdf.ClosePath()
	}
}
