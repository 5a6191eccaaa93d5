package pubadmin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/blogapi"
)

func seededCache(t *testing.T, n int) (*Store, *BlogCache) {
	t.Helper()
	s := setupTestStore(t)
	if err := Seed(context.Background(), s, n); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return s, NewBlogCache(s, time.Minute)
}

func TestBlogCachePagination(t *testing.T) {
	_, c := seededCache(t, 23)
	ctx := context.Background()

	tests := []struct {
		q        blogapi.Query
		rows     int
		wantMeta blogapi.Metadata
	}{
		{blogapi.Query{Page: 1, Limit: 10}, 10, blogapi.Metadata{TotalPages: 3, Page: 1, Limit: 10, Total: 23}},
		{blogapi.Query{Page: 3, Limit: 10}, 3, blogapi.Metadata{TotalPages: 3, Page: 3, Limit: 10, Total: 23}},
		{blogapi.Query{Page: 4, Limit: 10}, 0, blogapi.Metadata{TotalPages: 3, Page: 4, Limit: 10, Total: 23}},
		{blogapi.Query{Page: 0, Limit: 0}, 10, blogapi.Metadata{TotalPages: 3, Page: 1, Limit: 10, Total: 23}},
		{blogapi.Query{Page: 1, Limit: 20}, 20, blogapi.Metadata{TotalPages: 2, Page: 1, Limit: 20, Total: 23}},
		// (page-1)*limit would wrap for these.
		{blogapi.Query{Page: 922337203685477582, Limit: 10}, 0, blogapi.Metadata{TotalPages: 3, Page: 922337203685477582, Limit: 10, Total: 23}},
		{blogapi.Query{Page: 1844674407370955163, Limit: 10}, 0, blogapi.Metadata{TotalPages: 3, Page: 1844674407370955163, Limit: 10, Total: 23}},
	}
	for _, tt := range tests {
		res, err := c.Page(ctx, tt.q)
		if err != nil {
			t.Fatalf("Page(%+v): %v", tt.q, err)
		}
		if len(res.Data) != tt.rows {
			t.Errorf("Page(%+v) rows = %d, want %d", tt.q, len(res.Data), tt.rows)
		}
		if diff := cmp.Diff(tt.wantMeta, res.Metadata); diff != "" {
			t.Errorf("Page(%+v) metadata mismatch (-want +got):\n%s", tt.q, diff)
		}
	}
}

func TestBlogCacheEmptyStoreHasOnePage(t *testing.T) {
	c := NewBlogCache(setupTestStore(t), time.Minute)
	res, err := c.Page(context.Background(), blogapi.Query{Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if res.Metadata.TotalPages != 1 || len(res.Data) != 0 || res.Data == nil {
		t.Errorf("empty store result = %+v", res)
	}
}

func TestBlogCacheSearch(t *testing.T) {
	_, c := seededCache(t, 16)
	blogs, err := c.Search(context.Background(), "sqlite")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(blogs) == 0 {
		t.Fatal("expected matches for sqlite")
	}
	for _, b := range blogs {
		if b.Title != "Getting started with SQLite" && b.Title != "A deep dive into SQLite" {
			t.Errorf("unexpected match %q", b.Title)
		}
	}
}

func TestBlogCacheInvalidate(t *testing.T) {
	s, c := seededCache(t, 2)
	ctx := context.Background()
	if _, err := c.Search(ctx, ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := s.SaveBlog(ctx, Blog{Title: "fresh", Content: "x"}); err != nil {
		t.Fatalf("SaveBlog: %v", err)
	}
	blogs, _ := c.Search(ctx, "")
	if len(blogs) != 2 {
		t.Fatalf("cached read = %d blogs, want 2 before invalidation", len(blogs))
	}
	c.Invalidate()
	blogs, _ = c.Search(ctx, "")
	if len(blogs) != 3 {
		t.Errorf("after Invalidate = %d blogs, want 3", len(blogs))
	}
}

func TestHandleListBlogs(t *testing.T) {
	_, c := seededCache(t, 12)
	a := &App{Cache: c, Logger: discardLogger()}
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, localAPIPath+"?page=2&limit=5&searchTerm=", nil)
	rec := httptest.NewRecorder()
	if err := a.handleListBlogs(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handleListBlogs: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res blogapi.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Metadata.TotalPages != 3 || len(res.Data) != 5 {
		t.Errorf("metadata = %+v rows = %d", res.Metadata, len(res.Data))
	}
	if _, ok := res.Data[0]["author"].(map[string]any); !ok {
		t.Errorf("author should decode as an object: %v", res.Data[0]["author"])
	}
}
