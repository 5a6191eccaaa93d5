// Package blogapi is a client for the remote blog listing endpoint
// (getAllBlogs). The endpoint's contract is owned by the remote service:
//
//	GET <endpoint>?page={page}&limit={pageSize}&searchTerm={term}
//	-> {"data": [...], "metadata": {"totalPages": n}}
package blogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eringen/pubadmin/table"
)

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("blogapi: unexpected status")

// maxBodySize bounds how much of a response is decoded.
const maxBodySize = 8 << 20

// Query selects one page of the listing.
type Query struct {
	Page       int
	Limit      int
	SearchTerm string
}

// Metadata carries the pagination metadata returned with a page.
type Metadata struct {
	TotalPages int `json:"totalPages"`
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit,omitempty"`
	Total      int `json:"total,omitempty"`
}

// Result is one page of blogs.
type Result struct {
	Data     []table.Row `json:"data"`
	Metadata Metadata    `json:"metadata"`
}

// Client fetches pages from the listing endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// NewClient returns a Client for endpoint, e.g.
// "https://api.example.com/blog/getAllBlogs".
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured listing URL.
func (c *Client) Endpoint() string { return c.endpoint }

// URL builds the request URL for q.
func (c *Client) URL(q Query) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("blogapi: parse endpoint: %w", err)
	}
	v := u.Query()
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("searchTerm", q.SearchTerm)
	u.RawQuery = v.Encode()
	return u.String(), nil
}

// ListBlogs fetches one page. Transport errors, non-2xx statuses and
// undecodable bodies are all returned as errors.
func (c *Client) ListBlogs(ctx context.Context, q Query) (Result, error) {
	target, err := c.URL(q)
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("blogapi: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("blogapi: get %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return Result{}, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, target)
	}

	var res Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("blogapi: decode response: %w", err)
	}
	return res, nil
}
