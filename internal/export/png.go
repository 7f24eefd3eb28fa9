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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"

	"mushafkit/internal/render"
	"mushafkit/internal/shaping"
)

// ExportPNGPages rasterizes each page into page-<number>.png under
// outDir, using Options.DPI for the pixel size (page units are points,
// 1pt = 1/72 inch).
func ExportPNGPages(pages []Page, outDir string, opt Options) error {
	opt = opt.withDefaults()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	scale := float64(opt.DPI) / 72.0
	pixW := int(math.Round(opt.PageWidth * scale))
	pixH := int(math.Round(opt.PageHeight * scale))

	idx := pageIndexes(len(pages), opt.Pages)
	for _, pi := range idx {
		if pi < 0 || pi >= len(pages) {
			continue
		}
		pg := pages[pi]

		img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
		rast := vector.NewRasterizer(pixW, pixH)

		for li, line := range pg.Lines {
			g := geometry(opt, li, &line.Draw)
			for _, dg := range line.Draw.Glyphs {
				if dg.Outline == nil || len(dg.Outline.Segments) == 0 {
					continue
				}
				rast.Reset(pixW, pixH)
				traceGlyph(rast, dg, g, scale)
				c := glyphColor(dg, opt.Colored)
				src := image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
				rast.Draw(img, img.Bounds(), src, image.Point{})
			}
		}

		name := filepath.Join(outDir, fmt.Sprintf("page-%d.png", pg.Number))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close png: %w", err)
		}
	}
	return nil
}

func traceGlyph(rast *vector.Rasterizer, dg render.DrawGlyph, g lineGeom, scale float64) {
	dev := func(gx, gy float64) (float32, float32) {
		x, y := g.pt(gx, gy)
		return float32(x * scale), float32(y * scale)
	}
	open := false
	for _, seg := range dg.Outline.Segments {
		switch seg.Op {
		case shaping.MoveTo:
			if open {
				rast.ClosePath()
			}
			x, y := dev(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			rast.MoveTo(x, y)
			open = true
		case shaping.LineTo:
			x, y := dev(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			rast.LineTo(x, y)
		case shaping.QuadTo:
			cx, cy := dev(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			x, y := dev(dg.X+seg.Pts[1].X, dg.Y+seg.Pts[1].Y)
			rast.QuadTo(cx, cy, x, y)
		case shaping.CubeTo:
			c1x, c1y := dev(dg.X+seg.Pts[0].X, dg.Y+seg.Pts[0].Y)
			c2x, c2y := dev(dg.X+seg.Pts[1].X, dg.Y+seg.Pts[1].Y)
			x, y := dev(dg.X+seg.Pts[2].X, dg.Y+seg.Pts[2].Y)
			rast.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		rast.ClosePath()
	}
}
