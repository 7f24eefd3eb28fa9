/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package textsource provides page text for layout, either from a local
// JSON document or from a remote text service over HTTP.
package textsource

import (
	"context"
	"fmt"
	"strings"

	"mushafkit/internal/quran"
)

// Source yields the lines of a page, ordered top to bottom.
type Source interface {
	PageLines(ctx context.Context, page int) ([]quran.Line, error)
	PageCount() int
}

// lineRecord is the wire/file representation of a single line.
type lineRecord struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"` // "content" | "surah_header" | "basmala"
	WidthRatio float64 `json:"width_ratio"`
}

func (r lineRecord) toLine() (quran.Line, error) {
	var lt quran.LineType
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case "", "content":
		lt = quran.LineContent
	case "surah_header":
		lt = quran.LineSurahHeader
	case "basmala":
		lt = quran.LineBasmala
	default:
		return quran.Line{}, fmt.Errorf("unknown line type %q", r.Type)
	}
	ratio := r.WidthRatio
	if ratio == 0 {
		ratio = 1
	}
	if ratio < 0 || ratio > 1 {
		return quran.Line{}, fmt.Errorf("width ratio %v out of range", r.WidthRatio)
	}
	return quran.Line{Text: r.Text, Type: lt, WidthRatio: ratio}, nil
}

func toLines(recs []lineRecord) ([]quran.Line, error) {
	lines := make([]quran.Line, 0, len(recs))
	for i, r := range recs {
		l, err := r.toLine()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}
