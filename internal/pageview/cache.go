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

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is the bounded page-view cache. Eviction is least-recently-used
// and always tears the evicted view down first; outside a transient resize
// the size never exceeds the capacity.
type Cache struct {
	capacity int
	views    *lru.Cache[int, *PageView]
}

// NewCache creates a cache with the given capacity.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("pageview: cache capacity %d is not positive", capacity)
	}
	views, err := lru.NewWithEvict(capacity, func(_ int, v *PageView) {
		v.Teardown()
	})
	if err != nil {
		return nil, err
	}
	return &Cache{capacity: capacity, views: views}, nil
}

// Get returns the cached view for a page, touching its recency.
func (c *Cache) Get(page int) (*PageView, bool) {
	return c.views.Get(page)
}

// GetOrCreate returns the page's view, creating and inserting a fresh one
// if absent. Insertion may evict the least-recently-used view.
func (c *Cache) GetOrCreate(page int) *PageView {
	if v, ok := c.views.Get(page); ok {
		return v
	}
	v := New(page)
	c.views.Add(page, v)
	return v
}

// Resize changes the capacity, tearing down any views evicted by a
// shrink. Returns the number of evicted views.
func (c *Cache) Resize(capacity int) int {
	if capacity <= 0 || capacity == c.capacity {
		return 0
	}
	c.capacity = capacity
	return c.views.Resize(capacity)
}

// Capacity returns the current configured capacity.
func (c *Cache) Capacity() int { return c.capacity }

// Len returns the number of cached views.
func (c *Cache) Len() int { return c.views.Len() }

// Purge tears down and drops every view.
func (c *Cache) Purge() { c.views.Purge() }
