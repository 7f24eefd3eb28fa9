/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package textsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"mushafkit/internal/quran"
)

// fileDocument is the on-disk shape of a mushaf text file: an ordered list
// of pages, each holding its lines.
type fileDocument struct {
	Variant string `json:"variant"`
	Pages   []struct {
		Page  int          `json:"page"`
		Lines []lineRecord `json:"lines"`
	} `json:"pages"`
}

// FileSource serves page text from a local JSON document, fully parsed
// up front. Pages are addressed by their declared page number.
type FileSource struct {
	variant string
	pages   map[int][]quran.Line
	count   int
}

// OpenFile parses path into a FileSource.
func OpenFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(data)
}

// ParseFile parses a mushaf text document from raw JSON bytes.
func ParseFile(data []byte) (*FileSource, error) {
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse text document: %w", err)
	}
	fs := &FileSource{variant: doc.Variant, pages: make(map[int][]quran.Line, len(doc.Pages))}
	for _, p := range doc.Pages {
		if p.Page <= 0 {
			return nil, fmt.Errorf("page number %d invalid", p.Page)
		}
		if _, dup := fs.pages[p.Page]; dup {
			return nil, fmt.Errorf("duplicate page %d", p.Page)
		}
		lines, err := toLines(p.Lines)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Page, err)
		}
		fs.pages[p.Page] = lines
		if p.Page > fs.count {
			fs.count = p.Page
		}
	}
	return fs, nil
}

// Variant reports the variant string declared by the document.
func (f *FileSource) Variant() string { return f.variant }

// PageLines returns the lines of the given page.
func (f *FileSource) PageLines(_ context.Context, page int) ([]quran.Line, error) {
	lines, ok := f.pages[page]
	if !ok {
		return nil, fmt.Errorf("page %d not in document", page)
	}
	return lines, nil
}

// PageCount returns the highest page number present.
func (f *FileSource) PageCount() int { return f.count }
