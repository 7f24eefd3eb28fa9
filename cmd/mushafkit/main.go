/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mushafkit/internal/config"
	"mushafkit/internal/crash"
	"mushafkit/internal/export"
	"mushafkit/internal/justify"
	"mushafkit/internal/layoutdoc"
	applog "mushafkit/internal/log"
	"mushafkit/internal/marks"
	"mushafkit/internal/quran"
	"mushafkit/internal/render"
	"mushafkit/internal/segment"
	"mushafkit/internal/shaping"
	"mushafkit/internal/storage"
	"mushafkit/internal/tajweed"
	"mushafkit/internal/telemetry"
	"mushafkit/internal/textsource"
	"mushafkit/internal/version"
)

// Page geometry used by all export commands. Points.
const (
	pageWidthPt  = 420.0
	pageHeightPt = 650.0
	marginPt     = 28.0
	fontSizePt   = 22.0
)

func usage() {
	fmt.Println("mushafkit - mushaf page layout engine")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mushafkit version|-v|--version                Show version")
	fmt.Println("  mushafkit render <text.json> <outdir> [fmt]    Lay out and export pages (fmt: svg|pdf|png, default svg)")
	fmt.Println("  mushafkit validate <layout.json>               Validate a precomputed layout document")
	fmt.Println("  mushafkit layout <layout.json> <outdir>        Export a precomputed layout (runs the mark solver)")
	fmt.Println()
	fmt.Println("Fonts and variants come from the config file; see MSHF_* env overrides.")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer func() { crash.Recover("") }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("mushafkit - mushaf page layout engine")
			fmt.Println(version.String())
			return
		case "render":
			if len(args) < 4 {
				fmt.Println("render requires <text.json> and <outdir>")
				usage()
				os.Exit(2)
			}
			format := "svg"
			if len(args) >= 5 {
				format = args[4]
			}
			if err := runRender(args[2], args[3], format); err != nil {
				l.Error("render failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <layout.json>")
				usage()
				os.Exit(2)
			}
			if err := runValidate(args[2]); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Layout document is valid.")
			return
		case "layout":
			if len(args) < 4 {
				fmt.Println("layout requires <layout.json> and <outdir>")
				usage()
				os.Exit(2)
			}
			if err := runLayout(args[2], args[3]); err != nil {
				l.Error("layout export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// resolveVariant maps the configured variant name to a MushafVariant.
// A name ParseVariant does not know is a configuration error, not a
// silent fallback.
func resolveVariant(name string) (quran.MushafVariant, error) {
	variant, ok := quran.ParseVariant(name)
	if !ok {
		return variant, fmt.Errorf("unknown mushaf variant %q", name)
	}
	return variant, nil
}

// runRender lays out every page of a local text document and exports it.
func runRender(textPath, outDir, format string) error {
	cfg, _, err := config.Load()
	if err != nil {
		return err
	}
	variant, err := resolveVariant(cfg.Layout.Variant)
	if err != nil {
		return err
	}
	style := quran.StyleStretch
	if cfg.Layout.Justify == "scale_only" {
		style = quran.StyleScaleOnly
	}

	fontPath, err := cfg.Fonts.FontPath(cfg.Layout.Variant)
	if err != nil {
		return err
	}
	shaper, err := shaping.LoadFont(fontPath)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	defer shaper.Close()

	src, err := textsource.OpenFile(textPath)
	if err != nil {
		return err
	}

	l := applog.WithOperation(applog.WithComponent("cli"), "render")
	start := time.Now()

	var store *storage.Store
	if cfg.Cache.LayoutDB != "" {
		store, err = storage.Open(cfg.Cache.LayoutDB, cfg.Cache.LayoutDBMax)
		if err != nil {
			l.Warn("layout store unavailable", slog.Any("err", err))
		} else {
			defer store.Close()
		}
	}

	ctx := context.Background()
	pages := make([]export.Page, 0, src.PageCount())
	for p := 1; p <= src.PageCount(); p++ {
		if store != nil {
			if cached, ok, err := store.GetPage(ctx, p, cfg.Layout.Variant); err == nil && ok {
				pages = append(pages, export.Page{Number: p, Lines: cached})
				continue
			}
		}
		lines, err := src.PageLines(ctx, p)
		if err != nil {
			return err
		}
		results, err := layoutPage(shaper, lines, variant, style)
		if err != nil {
			return fmt.Errorf("page %d: %w", p, err)
		}
		if store != nil {
			if err := store.PutPage(ctx, p, cfg.Layout.Variant, results); err != nil {
				l.Warn("layout store write failed", slog.Int("page", p), slog.Any("err", err))
			}
		}
		pages = append(pages, export.Page{Number: p, Lines: results})
	}

	opt := export.Options{
		PageWidth:  pageWidthPt,
		PageHeight: pageHeightPt,
		Margin:     marginPt,
		FontSize:   fontSizePt,
		Upem:       shaper.UnitsPerEm(),
		Colored:    true,
	}
	switch format {
	case "svg":
		err = export.ExportSVGPages(pages, outDir, opt)
	case "pdf":
		err = export.ExportPDF(pages, filepath.Join(outDir, "mushaf.pdf"), opt)
	case "png":
		err = export.ExportPNGPages(pages, outDir, opt)
	default:
		return fmt.Errorf("unknown format %q (want svg, pdf or png)", format)
	}
	if err != nil {
		return err
	}

	l.Info("render done", slog.Int("pages", len(pages)), slog.Duration("took", time.Since(start)))
	telemetry.Event("render_pages", map[string]any{"pages": len(pages), "format": format})
	return nil
}

// layoutPage runs the full pipeline for one page: tajweed classification
// over the page text, then per-line segmentation, justification and
// positioning.
func layoutPage(shaper shaping.Shaper, lines []quran.Line, variant quran.MushafVariant, style quran.JustificationStyle) ([]render.Result, error) {
	tm, err := tajweed.Classify(lines, variant)
	if err != nil {
		return nil, err
	}
	eng := justify.NewEngine(shaper)
	coord := render.NewCoordinator(shaper, render.Options{Variant: variant, TrackWords: true})

	upem := shaper.UnitsPerEm()
	contentUnits := (pageWidthPt - 2*marginPt) / fontSizePt * float64(upem)
	spaceWidth, err := spaceAdvance(shaper, upem)
	if err != nil {
		return nil, err
	}

	results := make([]render.Result, 0, len(lines))
	for i, line := range lines {
		if line.Type != quran.LineContent {
			// Headers and basmala lines carry ornamental layout handled
			// by the presentation backend; emit an empty draw list.
			results = append(results, render.Result{})
			continue
		}
		li := segment.Segment(line.Text)
		plan, err := eng.Justify(li, contentUnits*line.WidthRatio, spaceWidth, variant, style)
		if err != nil {
			return nil, fmt.Errorf("line %d: justify: %w", i+1, err)
		}
		res, err := coord.Render(li, plan, tm.LineClasses(i))
		if err != nil {
			return nil, fmt.Errorf("line %d: render: %w", i+1, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

// spaceAdvance shapes a single space to read the font's space width.
func spaceAdvance(shaper shaping.Shaper, upem int) (float64, error) {
	glyphs, err := shaper.Shape(" ", nil)
	if err != nil {
		return 0, fmt.Errorf("shape space: %w", err)
	}
	if len(glyphs) == 0 || glyphs[0].XAdvance <= 0 {
		return float64(upem) / 4, nil
	}
	return glyphs[0].XAdvance, nil
}

func runValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	errs := layoutdoc.Validate(data)
	for _, e := range errs {
		fmt.Println("schema:", e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d schema violation(s)", len(errs))
	}
	// A structurally valid document can still have dangling references;
	// Parse catches those.
	if _, err := layoutdoc.Parse(data); err != nil {
		return err
	}
	return nil
}

// runLayout exports a precomputed layout document, running the mark
// placement solver on lines that carry their source text.
func runLayout(path, outDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := layoutdoc.Parse(data)
	if err != nil {
		return err
	}

	solver := marks.NewSolver()
	pages := make([]export.Page, 0, doc.PageCount())
	for p := 1; p <= doc.PageCount(); p++ {
		lines, err := doc.Lines(p)
		if err != nil {
			continue // layout docs may skip pages
		}
		results := make([]render.Result, 0, len(lines))
		for i, line := range lines {
			dl, err := doc.DrawList(p, i)
			if err != nil {
				return err
			}
			if line.Text != "" {
				li := segment.Segment(line.Text)
				nodes := marks.BuildNodes(dl, li)
				solver.Solve(nodes)
				marks.Apply(dl, nodes)
			}
			results = append(results, render.Result{Draw: *dl})
		}
		pages = append(pages, export.Page{Number: p, Lines: results})
	}

	opt := export.Options{
		PageWidth:  pageWidthPt,
		PageHeight: pageHeightPt,
		Margin:     marginPt,
		FontSize:   fontSizePt,
		Upem:       doc.Upem,
	}
	return export.ExportSVGPages(pages, outDir, opt)
}
