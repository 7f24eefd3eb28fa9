/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mushafkit/internal/render"
)

func openTestStore(t *testing.T, maxRows int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "layouts.db"), maxRows)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePage(width float64) []render.Result {
	return []render.Result{
		{
			Draw: render.DrawList{
				Glyphs: []render.DrawGlyph{{GlyphID: 42, Cluster: 0, X: width - 100, Y: 0}},
				Width:  width,
				XScale: 1,
				YMin:   -200,
				YMax:   900,
			},
			Words: []render.WordBounds{{Word: 0, StartX: width - 100, EndX: width}},
		},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("", 10); err == nil {
		t.Fatalf("Open with empty path succeeded")
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t, 10)
	ctx := context.Background()

	if _, ok, err := s.GetPage(ctx, 1, "madinah"); err != nil || ok {
		t.Fatalf("empty store Get = (ok=%v, err=%v)", ok, err)
	}

	want := samplePage(7200)
	if err := s.PutPage(ctx, 1, "madinah", want); err != nil {
		t.Fatalf("PutPage: %v", err)
	}
	got, ok, err := s.GetPage(ctx, 1, "madinah")
	if err != nil || !ok {
		t.Fatalf("GetPage = (ok=%v, err=%v)", ok, err)
	}
	if len(got) != 1 || got[0].Draw.Width != 7200 || len(got[0].Draw.Glyphs) != 1 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got[0].Words[0].EndX != 7200 {
		t.Errorf("word bounds lost: %+v", got[0].Words)
	}

	// Same page, other variant, is a distinct row.
	if _, ok, _ := s.GetPage(ctx, 1, "indopak"); ok {
		t.Errorf("variant leak across rows")
	}
}

func TestPutPageOverwrites(t *testing.T) {
	s := openTestStore(t, 10)
	ctx := context.Background()
	if err := s.PutPage(ctx, 2, "madinah", samplePage(100)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutPage(ctx, 2, "madinah", samplePage(250)); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetPage(ctx, 2, "madinah")
	if err != nil || !ok {
		t.Fatalf("GetPage = (ok=%v, err=%v)", ok, err)
	}
	if got[0].Draw.Width != 250 {
		t.Errorf("width = %g, want overwritten 250", got[0].Draw.Width)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestEvictionKeepsMostRecentRows(t *testing.T) {
	if testing.Short() {
		t.Skip("eviction ordering needs second-granular timestamps")
	}
	s := openTestStore(t, 2)
	ctx := context.Background()

	for _, page := range []int{1, 2, 3} {
		if err := s.PutPage(ctx, page, "madinah", samplePage(float64(page))); err != nil {
			t.Fatalf("PutPage(%d): %v", page, err)
		}
		// Access times are RFC3339 with second precision; keep them distinct.
		time.Sleep(1100 * time.Millisecond)
	}

	if n, err := s.Count(ctx); err != nil || n != 2 {
		t.Fatalf("count = (%d,%v), want 2", n, err)
	}
	if _, ok, _ := s.GetPage(ctx, 1, "madinah"); ok {
		t.Errorf("oldest row survived eviction")
	}
	for _, page := range []int{2, 3} {
		if _, ok, _ := s.GetPage(ctx, page, "madinah"); !ok {
			t.Errorf("recent page %d evicted", page)
		}
	}
}

func TestCorruptRowIsDroppedAsMiss(t *testing.T) {
	s := openTestStore(t, 10)
	ctx := context.Background()
	if err := s.PutPage(ctx, 5, "madinah", samplePage(100)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE layouts SET blob=? WHERE page=5`, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetPage(ctx, 5, "madinah")
	if err != nil {
		t.Fatalf("corrupt row returned error: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("corrupt row returned a hit: %+v", got)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("corrupt row not deleted, count = %d", n)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t, 10)
	ctx := context.Background()
	for page := 1; page <= 3; page++ {
		if err := s.PutPage(ctx, page, "madinah", samplePage(1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("count = %d after Clear", n)
	}
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.db")
	ctx := context.Background()

	s, err := Open(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutPage(ctx, 1, "madinah", samplePage(300)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path, 10)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, ok, err := s2.GetPage(ctx, 1, "madinah")
	if err != nil || !ok {
		t.Fatalf("GetPage after reopen = (ok=%v, err=%v)", ok, err)
	}
	if got[0].Draw.Width != 300 {
		t.Errorf("width = %g", got[0].Draw.Width)
	}
}
