package pubadmin

import (
	"context"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/table"
)

// maxLimit bounds the page size the local API accepts.
const maxLimit = 100

// BlogCache is an in-memory cache of stored blogs with TTL. It answers
// listing queries for the local API.
type BlogCache struct {
	mu      sync.RWMutex
	blogs   []Blog
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewBlogCache creates a BlogCache backed by the given Store.
func NewBlogCache(s *Store, ttl time.Duration) *BlogCache {
	return &BlogCache{store: s, ttl: ttl}
}

func (c *BlogCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *BlogCache) Invalidate() {
	c.mu.Lock()
	c.blogs = nil
	c.loaded = false
	c.mu.Unlock()
}

// ensureLoaded returns cached blogs after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *BlogCache) ensureLoaded(ctx context.Context) ([]Blog, error) {
	c.mu.RLock()
	if c.valid() {
		blogs := c.blogs
		c.mu.RUnlock()
		return blogs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.blogs, nil
	}
	blogs, err := c.store.ListBlogs(ctx)
	if err != nil {
		return nil, err
	}
	c.blogs = blogs
	c.loaded = true
	c.fetched = time.Now()
	return blogs, nil
}

// blogSource exposes titles and authors to the fuzzy matcher.
type blogSource []Blog

func (s blogSource) String(i int) string {
	b := s[i]
	return b.Title + " " + b.AuthorFirstName + " " + b.AuthorLastName
}

func (s blogSource) Len() int { return len(s) }

// Search returns the blogs matching term, best match first. A blank term
// returns every blog newest first.
func (c *BlogCache) Search(ctx context.Context, term string) ([]Blog, error) {
	blogs, err := c.ensureLoaded(ctx)
	if err != nil || term == "" {
		return blogs, err
	}
	matches := fuzzy.FindFrom(term, blogSource(blogs))
	out := make([]Blog, len(matches))
	for i, m := range matches {
		out[i] = blogs[m.Index]
	}
	return out, nil
}

// Page answers one listing query. Page and limit are normalised; a page
// past the end yields no rows.
func (c *BlogCache) Page(ctx context.Context, q blogapi.Query) (blogapi.Result, error) {
	blogs, err := c.Search(ctx, q.SearchTerm)
	if err != nil {
		return blogapi.Result{}, err
	}
	limit := q.Limit
	if limit < 1 {
		limit = table.DefaultPageSize
	}
	limit = min(limit, maxLimit)
	page := max(q.Page, 1)
	total := len(blogs)
	totalPages := max(1, (total+limit-1)/limit)

	data := []table.Row{}
	if page <= totalPages {
		start := (page - 1) * limit
		for _, b := range blogs[start:min(start+limit, total)] {
			data = append(data, b.Row())
		}
	}
	return blogapi.Result{
		Data: data,
		Metadata: blogapi.Metadata{
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
			Total:      total,
		},
	}, nil
}
