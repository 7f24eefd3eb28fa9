/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package segment splits a mushaf line into words, subwords and space
// classes. Subword topology models Arabic letter-connection: a subword is a
// maximal visually-joined run, and it is the unit the kashida search walks,
// because elongation is only legal at a genuine letter-to-letter connection.
package segment

import (
	"strings"
	"sync"

	"mushafkit/internal/quran"
)

// SpaceClass tags a space character within a line.
type SpaceClass int

const (
	// SpaceSimple is an ordinary inter-word space.
	SpaceSimple SpaceClass = iota
	// SpaceAyaEnd separates a verse from its ayah number; it absorbs
	// stretch more aggressively than a word space.
	SpaceAyaEnd
)

// SpaceInfo records one space and its class. Index is a rune offset into
// the line.
type SpaceInfo struct {
	Index int
	Class SpaceClass
}

// Subword is a joined base-letter run within a word. Letters holds the base
// letters in logical order; Offsets holds each letter's rune offset within
// the owning word.
type Subword struct {
	Letters []rune
	Offsets []int
}

// BaseText returns the subword's base letters as a string; the kashida
// context rules match against this.
func (sw *Subword) BaseText() string { return string(sw.Letters) }

// Len returns the number of base letters.
func (sw *Subword) Len() int { return len(sw.Letters) }

// WordInfo is one space-delimited word of a line.
type WordInfo struct {
	// Start and End delimit the word as rune offsets into the line, end
	// exclusive.
	Start, End int
	// Text is the full word text including diacritics.
	Text string
	// BaseText is the word's base letters only.
	BaseText string
	// Subwords partition BaseText into joined runs.
	Subwords []Subword
}

// LineTextInfo is the segmentation of one line.
type LineTextInfo struct {
	Text   string
	Runes  []rune
	Words  []WordInfo
	Spaces []SpaceInfo
}

// SimpleSpaceCount returns the number of ordinary spaces.
func (li *LineTextInfo) SimpleSpaceCount() int { return li.countSpaces(SpaceSimple) }

// AyaSpaceCount returns the number of verse-end spaces.
func (li *LineTextInfo) AyaSpaceCount() int { return li.countSpaces(SpaceAyaEnd) }

func (li *LineTextInfo) countSpaces(c SpaceClass) int {
	n := 0
	for _, s := range li.Spaces {
		if s.Class == c {
			n++
		}
	}
	return n
}

// SpaceClassAt returns the class of the space at rune offset idx.
func (li *LineTextInfo) SpaceClassAt(idx int) (SpaceClass, bool) {
	for _, s := range li.Spaces {
		if s.Index == idx {
			return s.Class, true
		}
	}
	return SpaceSimple, false
}

// Segment splits line text into words, subwords and classified spaces.
// Pure function of the text.
func Segment(text string) *LineTextInfo {
	runes := []rune(text)
	info := &LineTextInfo{Text: text, Runes: runes}

	wordStart := -1
	var word *WordInfo
	var base strings.Builder
	var current Subword
	// breakNext forces the next base letter to open a new subword; set by
	// hamza and by a right-joining letter (the stroke cannot continue left).
	breakNext := false

	closeSubword := func() {
		if len(current.Letters) > 0 {
			word.Subwords = append(word.Subwords, current)
			current = Subword{}
		}
	}
	closeWord := func(end int) {
		if word == nil {
			return
		}
		closeSubword()
		word.End = end
		word.Text = string(runes[word.Start:end])
		word.BaseText = base.String()
		info.Words = append(info.Words, *word)
		word = nil
		base.Reset()
		breakNext = false
	}

	for i, r := range runes {
		if r == ' ' {
			closeWord(i)
			info.Spaces = append(info.Spaces, SpaceInfo{Index: i, Class: classifySpace(runes, i)})
			continue
		}
		if word == nil {
			wordStart = i
			word = &WordInfo{Start: wordStart}
		}
		if !quran.IsBaseLetter(r) {
			continue
		}
		base.WriteRune(r)
		off := i - wordStart
		switch {
		case r == quran.Hamza:
			// Hamza joins neither side: it is always its own subword.
			closeSubword()
			word.Subwords = append(word.Subwords, Subword{Letters: []rune{r}, Offsets: []int{off}})
			breakNext = true
		default:
			if breakNext {
				closeSubword()
				breakNext = false
			}
			current.Letters = append(current.Letters, r)
			current.Offsets = append(current.Offsets, off)
			if quran.IsRightJoining(r) {
				breakNext = true
			}
		}
	}
	closeWord(len(runes))
	return info
}

// classifySpace tags the space at position i. A space flanked by an
// Arabic-Indic digit or the end-of-ayah sign belongs to a verse boundary.
func classifySpace(runes []rune, i int) SpaceClass {
	if i+1 < len(runes) && isAyaMark(runes[i+1]) {
		return SpaceAyaEnd
	}
	if i > 0 && isAyaMark(runes[i-1]) {
		return SpaceAyaEnd
	}
	return SpaceSimple
}

func isAyaMark(r rune) bool {
	return quran.IsArabicDigit(r) || r == quran.EndOfAyah
}

// Key identifies a cached segmentation.
type Key struct {
	Page int
	Line int
}

// Cache memoizes segmentations per (page, line) for the process lifetime.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*LineTextInfo
}

// NewCache returns an empty segmentation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*LineTextInfo)}
}

// Segment returns the cached segmentation for key, computing it from text
// on first use. The cached value is shared; callers must not mutate it.
func (c *Cache) Segment(key Key, text string) *LineTextInfo {
	c.mu.RLock()
	li, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && li.Text == text {
		return li
	}
	li = Segment(text)
	c.mu.Lock()
	c.entries[key] = li
	c.mu.Unlock()
	return li
}

// Clear drops all cached segmentations. Call when page text or the ruleset
// changes.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key]*LineTextInfo)
	c.mu.Unlock()
}
