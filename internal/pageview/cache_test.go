/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pageview

import "testing"

func TestCacheRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := NewCache(0); err == nil {
		t.Fatalf("NewCache(0) succeeded")
	}
	if _, err := NewCache(-3); err == nil {
		t.Fatalf("NewCache(-3) succeeded")
	}
}

func TestCacheEvictsLeastRecentlyUsedAndTearsDown(t *testing.T) {
	c, err := NewCache(2)
	if err != nil {
		t.Fatal(err)
	}
	v1 := c.GetOrCreate(1)
	v2 := c.GetOrCreate(2)

	// Touch page 1 so page 2 is the eviction victim.
	if got, ok := c.Get(1); !ok || got != v1 {
		t.Fatalf("Get(1) = (%v,%v)", got, ok)
	}
	v3 := c.GetOrCreate(3)

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get(2); ok {
		t.Fatalf("page 2 survived eviction")
	}
	v2.Wait() // torn down by the evict hook
	if got := v2.State(); got != StateFinished {
		t.Errorf("evicted view state = %v, want finished", got)
	}
	if v1.State() == StateFinished || v3.State() == StateFinished {
		t.Errorf("resident views were torn down")
	}
	c.Purge()
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	c, err := NewCache(3)
	if err != nil {
		t.Fatal(err)
	}
	a := c.GetOrCreate(7)
	b := c.GetOrCreate(7)
	if a != b {
		t.Fatalf("GetOrCreate created a duplicate view")
	}
	c.Purge()
}

func TestResizeShrinkTearsDownEvicted(t *testing.T) {
	c, err := NewCache(4)
	if err != nil {
		t.Fatal(err)
	}
	views := make([]*PageView, 0, 4)
	for p := 1; p <= 4; p++ {
		views = append(views, c.GetOrCreate(p))
	}
	evicted := c.Resize(2)
	if evicted != 2 {
		t.Fatalf("Resize evicted %d, want 2", evicted)
	}
	if c.Capacity() != 2 || c.Len() != 2 {
		t.Errorf("capacity %d len %d after shrink", c.Capacity(), c.Len())
	}
	// Oldest two views are gone and finished.
	for _, v := range views[:2] {
		v.Wait()
		if got := v.State(); got != StateFinished {
			t.Errorf("evicted view state = %v", got)
		}
	}
	if c.Resize(2) != 0 {
		t.Errorf("same-capacity resize evicted views")
	}
	if c.Resize(0) != 0 {
		t.Errorf("non-positive resize evicted views")
	}
	c.Purge()
}

func TestPurgeTearsDownEverything(t *testing.T) {
	c, err := NewCache(3)
	if err != nil {
		t.Fatal(err)
	}
	a := c.GetOrCreate(1)
	b := c.GetOrCreate(2)
	c.Purge()
	for _, v := range []*PageView{a, b} {
		v.Wait()
		if got := v.State(); got != StateFinished {
			t.Errorf("purged view state = %v", got)
		}
	}
	if c.Len() != 0 {
		t.Errorf("len = %d after purge", c.Len())
	}
}
