/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tajweed classifies Quranic text positions into recitation color
// classes. A whole page is classified at once: the page's lines are joined
// into one buffer so rules with lookaround can see context across line
// breaks, then buffer offsets are remapped to (line, offset) pairs during
// one forward scan.
package tajweed

import (
	"sort"

	"github.com/dlclark/regexp2"

	"mushafkit/internal/quran"
)

// Position addresses one character of a page: line index plus rune offset
// within that line.
type Position struct {
	Line   int
	Offset int
}

// Map is the page classification: position to color class.
type Map map[Position]ColorClass

// LineClasses extracts one line's offset-to-class view.
func (m Map) LineClasses(line int) map[int]ColorClass {
	out := make(map[int]ColorClass)
	for p, c := range m {
		if p.Line == line {
			out[p.Offset] = c
		}
	}
	return out
}

// basmalaPlaceholder stands in for a basmala line in the page buffer. It
// separates the surrounding ayah text so cross-line lookarounds do not join
// text across a surah opening.
const basmalaPlaceholder = '۞' // ۞

// Classify runs both rule passes over the page and returns the position
// map. Deterministic for fixed input and variant.
func Classify(lines []quran.Line, variant quran.MushafVariant) (Map, error) {
	buf := buildBuffer(lines)
	text := string(buf.runes)
	a := &bufApplier{runes: buf.runes, classes: make(map[int]ColorClass)}

	if err := runPass(tafkhimPattern, tafkhimRules, tafkhimGroups, a, text); err != nil {
		return nil, err
	}
	others := othersMadinah
	if variant == quran.IndoPak {
		others = othersIndoPak
	}
	if err := runPass(others, othersRules, othersGroups, a, text); err != nil {
		return nil, err
	}

	// Remap buffer offsets to line positions with one forward scan.
	offsets := make([]int, 0, len(a.classes))
	for off := range a.classes {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	out := make(Map, len(offsets))
	r := resolver{spans: buf.spans}
	for _, off := range offsets {
		line, lineOff, ok := r.resolve(off)
		if !ok {
			continue // separator or placeholder position
		}
		out[Position{Line: line, Offset: lineOff}] = a.classes[off]
	}
	return out, nil
}

// span ties a buffer range to its source line.
type span struct {
	bufStart int
	line     int
	length   int
}

type pageBuffer struct {
	runes []rune
	spans []span
}

// buildBuffer concatenates content and basmala lines, space separated.
// Surah header lines are skipped entirely; basmala lines contribute only
// the placeholder.
func buildBuffer(lines []quran.Line) *pageBuffer {
	b := &pageBuffer{}
	for i, ln := range lines {
		switch ln.Type {
		case quran.LineSurahHeader:
			continue
		case quran.LineBasmala:
			if len(b.runes) > 0 {
				b.runes = append(b.runes, ' ')
			}
			b.runes = append(b.runes, basmalaPlaceholder)
		default:
			if len(b.runes) > 0 {
				b.runes = append(b.runes, ' ')
			}
			lineRunes := []rune(ln.Text)
			b.spans = append(b.spans, span{bufStart: len(b.runes), line: i, length: len(lineRunes)})
			b.runes = append(b.runes, lineRunes...)
		}
	}
	return b
}

// resolver maps buffer offsets back to line positions. Offsets arrive in
// ascending order, so the cursor only moves forward and resolution is
// amortized O(1).
type resolver struct {
	spans  []span
	cursor int
}

func (r *resolver) resolve(off int) (line, lineOff int, ok bool) {
	for r.cursor < len(r.spans) && off >= r.spans[r.cursor].bufStart+r.spans[r.cursor].length {
		r.cursor++
	}
	if r.cursor >= len(r.spans) || off < r.spans[r.cursor].bufStart {
		return 0, 0, false
	}
	s := r.spans[r.cursor]
	return s.line, off - s.bufStart, true
}

// bufApplier implements applier over the page buffer.
type bufApplier struct {
	runes   []rune
	classes map[int]ColorClass
}

func (a *bufApplier) set(off int, c ColorClass) {
	if off >= 0 && off < len(a.runes) {
		a.classes[off] = c
	}
}

func (a *bufApplier) setRange(off, n int, c ColorClass) {
	for i := 0; i < n; i++ {
		a.set(off+i, c)
	}
}

func (a *bufApplier) clear(off int) {
	delete(a.classes, off)
}

func (a *bufApplier) rune(off int) rune {
	if off < 0 || off >= len(a.runes) {
		return 0
	}
	return a.runes[off]
}

func (a *bufApplier) has(off int) bool {
	_, ok := a.classes[off]
	return ok
}

// runPass evaluates one alternation pattern over the buffer and applies the
// rule of whichever named group matched. Each match activates exactly one
// alternative.
func runPass(re *regexp2.Regexp, rules map[string]ruleFunc, groups []string, a applier, text string) error {
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		for _, name := range groups {
			grp := m.GroupByName(name)
			if grp == nil || len(grp.Captures) == 0 {
				continue
			}
			if fn, ok := rules[name]; ok {
				fn(a, capture{index: grp.Index, length: grp.Length})
			}
			break
		}
		m, err = re.FindNextMatch(m)
	}
	return err
}
