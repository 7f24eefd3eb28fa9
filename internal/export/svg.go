/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"mushafkit/internal/render"
	"mushafkit/internal/shaping"
)

// ExportSVGPages writes each page as a separate SVG file named
// page-<number>.svg under outDir.
func ExportSVGPages(pages []Page, outDir string, opt Options) error {
	opt = opt.withDefaults()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	idx := pageIndexes(len(pages), opt.Pages)
	for _, pi := range idx {
		if pi < 0 || pi >= len(pages) {
			continue
		}
		pg := pages[pi]

		var buf bytes.Buffer
		var werr error
		wf := func(format string, args ...any) {
			if werr != nil {
				return
			}
			_, werr = fmt.Fprintf(&buf, format, args...)
		}

		wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"0 0 %g %g\">\n", opt.PageWidth, opt.PageHeight)
		wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", opt.PageWidth, opt.PageHeight)

		for li, line := range pg.Lines {
			g := geometry(opt, li, &line.Draw)
			for _, dg := range line.Draw.Glyphs {
				if dg.Outline == nil || len(dg.Outline.Segments) == 0 {
					continue
				}
				d := svgPathData(dg, g)
				c := glyphColor(dg, opt.Colored)
				wf("  <path d=\"%s\" fill=\"#%02x%02x%02x\"/>\n", d, c.R, c.G, c.B)
			}
		}

		wf("</svg>\n")
		if werr != nil {
			return fmt.Errorf("build svg: %w", werr)
		}

		name := filepath.Join(outDir, fmt.Sprintf("page-%d.svg", pg.Number))
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

// svgPathData serializes one glyph outline into an SVG path, mapping
// font units to page coordinates. Contours are implicitly closed.
func svgPathData(dg render.DrawGlyph, g lineGeom) string {
	var b bytes.Buffer
	open := false
	for _, seg := range dg.Outline.Segments {
		switch seg.Op {
		case shaping.MoveTo:
			if open {
				b.WriteString("Z ")
			}
			x, y := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			fmt.Fprintf(&b, "M%g %g ", x, y)
			open = true
		case shaping.LineTo:
			x, y := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			fmt.Fprintf(&b, "L%g %g ", x, y)
		case shaping.QuadTo:
			cx, cy := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			x, y := g.pt(dg.X+seg.Pts[1].X, dg.Y+seg.Pts[1].Y)
			fmt.Fprintf(&b, "Q%g %g %g %g ", cx, cy, x, y)
		case shaping.CubeTo:
			c1x, c1y := g.pt(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			c2x, c2y := g.pt(dg.X+seg.Pts[1].X, dg.Y+seg.Pts[1].Y)
			x, y := g.pt(dg.X+seg.Pts[2].X, dg.Y+seg.Pts[2].Y)
			fmt.Fprintf(&b, "C%g %g %g %g %g %g ", c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		b.WriteString("Z")
	}
	return b.String()
}
