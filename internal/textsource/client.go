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
	"net/http"
	"net/url"
	"strings"
	"time"

	"mushafkit/internal/quran"
)

// Client is a minimal HTTP client for a mushaf text service.
// It supports the read-only page endpoints used by the layout engine.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client

	pages int
}

// NewClient creates a new text-service client. baseURL may include a trailing
// slash; it will be normalized. timeout <= 0 falls back to 10s.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	b := strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// mushafInfo matches the server response for mushaf metadata.
type mushafInfo struct {
	Variant   string `json:"variant"`
	PageCount int    `json:"page_count"`
}

// pageEnvelope matches the server response for a single page.
type pageEnvelope struct {
	Page  int          `json:"page"`
	Lines []lineRecord `json:"lines"`
}

// Info fetches mushaf metadata and caches the page count.
func (c *Client) Info(ctx context.Context) (variant string, pages int, err error) {
	var info mushafInfo
	if err := c.doJSON(ctx, http.MethodGet, "/api/mushaf", &info); err != nil {
		return "", 0, err
	}
	c.pages = info.PageCount
	return info.Variant, info.PageCount, nil
}

// PageLines fetches the lines of one page.
func (c *Client) PageLines(ctx context.Context, page int) ([]quran.Line, error) {
	var env pageEnvelope
	path := fmt.Sprintf("/api/mushaf/pages/%d", page)
	if err := c.doJSON(ctx, http.MethodGet, path, &env); err != nil {
		return nil, err
	}
	return toLines(env.Lines)
}

// PageCount returns the page count from the last Info call (0 if never called).
func (c *Client) PageCount() int { return c.pages }
