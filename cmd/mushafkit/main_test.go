/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"strings"
	"testing"

	"mushafkit/internal/quran"
)

func TestResolveVariant(t *testing.T) {
	cases := []struct {
		name string
		want quran.MushafVariant
		ok   bool
	}{
		{"madinah", quran.Madinah, true},
		{"indopak", quran.IndoPak, true},
		{"", quran.Madinah, true},
		{"naskh", quran.Madinah, false},
		{"Madinah", quran.Madinah, false},
	}
	for _, c := range cases {
		got, err := resolveVariant(c.name)
		if c.ok {
			if err != nil {
				t.Errorf("resolveVariant(%q) err = %v", c.name, err)
			} else if got != c.want {
				t.Errorf("resolveVariant(%q) = %v, want %v", c.name, got, c.want)
			}
			continue
		}
		if err == nil {
			t.Errorf("resolveVariant(%q) accepted an unknown variant", c.name)
		} else if !strings.Contains(err.Error(), c.name) {
			t.Errorf("resolveVariant(%q) err %q does not name the variant", c.name, err)
		}
	}
}
