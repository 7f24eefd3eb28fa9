/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pageview

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"mushafkit/internal/log"
)

// RenderPage renders one page incrementally; the yield contract is that of
// RenderFunc.
type RenderPage func(page int, yield func() bool) error

// VisiblePage is one page intersecting the viewport.
type VisiblePage struct {
	Page int
	// Coverage is the fraction of the page's height inside the viewport.
	Coverage float64
}

// Viewer computes page visibility from scroll geometry and drives exactly
// one page's render forward at a time. Switching target pages pauses the
// previous driver before resuming or starting the next: cooperative mutual
// exclusion, not a lock.
type Viewer struct {
	mu sync.Mutex

	cache      *Cache
	defaultCap int

	pageCount      int
	pageHeight     float64
	viewportHeight float64

	render RenderPage

	current    *PageView
	lastScroll float64
}

// ViewerConfig configures a Viewer.
type ViewerConfig struct {
	PageCount      int
	PageHeight     float64
	ViewportHeight float64
	// CacheCapacity is the default capacity floor; the cache grows with
	// the visible page count.
	CacheCapacity int
	Render        RenderPage
}

// NewViewer validates the geometry and builds the viewer.
func NewViewer(cfg ViewerConfig) (*Viewer, error) {
	if cfg.PageCount <= 0 || cfg.PageHeight <= 0 || cfg.ViewportHeight <= 0 {
		return nil, fmt.Errorf("pageview: invalid viewer geometry (pages=%d pageH=%g viewH=%g)",
			cfg.PageCount, cfg.PageHeight, cfg.ViewportHeight)
	}
	if cfg.Render == nil {
		return nil, fmt.Errorf("pageview: viewer requires a render function")
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 5
	}
	cache, err := NewCache(cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}
	return &Viewer{
		cache:          cache,
		defaultCap:     cfg.CacheCapacity,
		pageCount:      cfg.PageCount,
		pageHeight:     cfg.PageHeight,
		viewportHeight: cfg.ViewportHeight,
		render:         cfg.Render,
	}, nil
}

// VisiblePages returns the pages intersecting the viewport at scrollTop,
// in page order, with their coverage fractions.
func (vw *Viewer) VisiblePages(scrollTop float64) []VisiblePage {
	var out []VisiblePage
	first := int(math.Floor(scrollTop / vw.pageHeight))
	if first < 0 {
		first = 0
	}
	for p := first; p < vw.pageCount; p++ {
		top := float64(p) * vw.pageHeight
		if top >= scrollTop+vw.viewportHeight {
			break
		}
		lo := math.Max(top, scrollTop)
		hi := math.Min(top+vw.pageHeight, scrollTop+vw.viewportHeight)
		if hi <= lo {
			continue
		}
		out = append(out, VisiblePage{Page: p, Coverage: (hi - lo) / vw.pageHeight})
	}
	return out
}

// HandleScroll reacts to one scroll or resize event: recomputes
// visibility, resizes the cache to max(default, 2*visible+1), and moves
// the single render driver to the highest-priority page.
func (vw *Viewer) HandleScroll(scrollTop float64) error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	visible := vw.VisiblePages(scrollTop)
	capacity := vw.defaultCap
	if need := 2*len(visible) + 1; need > capacity {
		capacity = need
	}
	if evicted := vw.cache.Resize(capacity); evicted > 0 {
		log.WithComponent("pageview").Debug("cache resized", "capacity", capacity, "evicted", evicted)
	}

	scrollingDown := scrollTop >= vw.lastScroll
	vw.lastScroll = scrollTop

	target, ok := vw.pickTarget(visible, scrollingDown)
	if !ok {
		return nil
	}
	return vw.driveLocked(target)
}

// pickTarget prefers the first unfinished visible page ordered by coverage
// descending then page ascending; with everything visible finished it
// speculates one page ahead in the scroll direction.
func (vw *Viewer) pickTarget(visible []VisiblePage, scrollingDown bool) (int, bool) {
	if len(visible) == 0 {
		return 0, false
	}
	sorted := append([]VisiblePage(nil), visible...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Coverage != sorted[j].Coverage {
			return sorted[i].Coverage > sorted[j].Coverage
		}
		return sorted[i].Page < sorted[j].Page
	})
	for _, vp := range sorted {
		if v, ok := vw.cache.Get(vp.Page); !ok || v.State() != StateFinished {
			return vp.Page, true
		}
	}
	// All visible pages finished: render ahead.
	if scrollingDown {
		next := visible[len(visible)-1].Page + 1
		if next < vw.pageCount {
			return next, true
		}
	} else {
		prev := visible[0].Page - 1
		if prev >= 0 {
			return prev, true
		}
	}
	return 0, false
}

// driveLocked makes page the single running render, pausing the previous
// driver first.
func (vw *Viewer) driveLocked(page int) error {
	if vw.current != nil && vw.current.Page == page && vw.current.State() == StateRunning {
		return nil
	}
	if vw.current != nil {
		vw.current.Pause()
	}

	v := vw.cache.GetOrCreate(page)
	vw.current = v
	switch v.State() {
	case StateInitial:
		return v.Start(func(yield func() bool) error {
			return vw.render(page, yield)
		})
	case StatePaused:
		v.Resume()
	}
	return nil
}

// Close tears down every cached view.
func (vw *Viewer) Close() {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.current = nil
	vw.cache.Purge()
}

// Cache exposes the page cache, mainly for invalidation and tests.
func (vw *Viewer) Cache() *Cache { return vw.cache }
