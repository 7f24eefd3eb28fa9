/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package marks relaxes diacritic positions on the precomputed-layout path.
// Glyphs become particles in a small force simulation: bases are pulled to
// their nominal positions, marks are pulled to their base's resolved
// position plus their original relative offset. Marks read the base's
// current velocity each step, so they trail a still-settling base instead
// of snapping, which is what keeps them clear of neighboring glyphs once a
// base has been nudged.
package marks

import (
	"mushafkit/internal/quran"
	"mushafkit/internal/render"
	"mushafkit/internal/segment"
)

// Node is one simulation particle. Marks reference their base by arena
// index rather than by pointer, so a page's nodes form a flat arena with no
// ownership cycles. Lifetime is one page render pass.
type Node struct {
	X, Y             float64 // current position
	VX, VY           float64 // velocity
	TargetX, TargetY float64 // nominal layout position
	IsMark           bool
	// Base is the arena index of the owning base glyph; -1 for bases.
	Base int
	// RelX, RelY is the mark's nominal offset from its base.
	RelX, RelY float64
}

// Solver holds the fixed simulation constants. The iteration budget is
// always spent in full: exact convergence is unnecessary at sub-pixel
// tolerance and a fixed budget keeps the cost deterministic.
type Solver struct {
	Iterations int
	Decay      float64
	BaseGain   float64
	MarkGain   float64
}

// NewSolver returns a solver with the production constants.
func NewSolver() *Solver {
	return &Solver{
		Iterations: 300,
		Decay:      0.82,
		BaseGain:   0.12,
		MarkGain:   0.2,
	}
}

// Solve relaxes the arena in place for the full iteration budget.
func (s *Solver) Solve(nodes []Node) {
	for it := 0; it < s.Iterations; it++ {
		for i := range nodes {
			n := &nodes[i]
			var ax, ay float64
			if !n.IsMark {
				ax = (n.TargetX - n.X) * s.BaseGain
				ay = (n.TargetY - n.Y) * s.BaseGain
			} else if n.Base >= 0 && n.Base < len(nodes) {
				b := &nodes[n.Base]
				// Aim where the base is heading, not where it is.
				ax = (b.X + b.VX + n.RelX - n.X) * s.MarkGain
				ay = (b.Y + b.VY + n.RelY - n.Y) * s.MarkGain
			} else {
				ax = (n.TargetX - n.X) * s.BaseGain
				ay = (n.TargetY - n.Y) * s.BaseGain
			}
			n.VX = (n.VX + ax) * s.Decay
			n.VY = (n.VY + ay) * s.Decay
			n.X += n.VX
			n.Y += n.VY
		}
	}
}

// BuildNodes turns a positioned line into a simulation arena. A glyph is a
// mark when its source character is a diacritic; its base is the nearest
// non-mark glyph to its right in the draw list (the letter it rides).
// Initial positions start at the targets so an undisturbed layout stays
// put.
func BuildNodes(dl *render.DrawList, li *segment.LineTextInfo) []Node {
	nodes := make([]Node, len(dl.Glyphs))
	lastBase := -1
	// Draw list order follows the coordinator's right-to-left walk, which
	// keeps every mark adjacent to and after its base glyph.
	for i := 0; i < len(dl.Glyphs); i++ {
		g := dl.Glyphs[i]
		isMark := g.Cluster < len(li.Runes) && quran.IsDiacritic(li.Runes[g.Cluster])
		nodes[i] = Node{
			X: g.X, Y: g.Y,
			TargetX: g.X, TargetY: g.Y,
			IsMark: isMark,
			Base:   -1,
		}
		if !isMark {
			lastBase = i
		} else if lastBase >= 0 {
			nodes[i].Base = lastBase
			nodes[i].RelX = g.X - dl.Glyphs[lastBase].X
			nodes[i].RelY = g.Y - dl.Glyphs[lastBase].Y
		}
	}
	return nodes
}

// Apply writes resolved positions back into the draw list.
func Apply(dl *render.DrawList, nodes []Node) {
	for i := range nodes {
		if i < len(dl.Glyphs) {
			dl.Glyphs[i].X = nodes[i].X
			dl.Glyphs[i].Y = nodes[i].Y
		}
	}
}
