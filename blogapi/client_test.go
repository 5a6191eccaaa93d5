package blogapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListBlogsSendsQueryAndDecodes(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"page":       r.URL.Query().Get("page"),
			"limit":      r.URL.Query().Get("limit"),
			"searchTerm": r.URL.Query().Get("searchTerm"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"_id":"1","title":"Hello","status":"draft","author":{"firstName":"Ada"}}],"metadata":{"totalPages":3}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/blog/getAllBlogs")
	res, err := c.ListBlogs(context.Background(), Query{Page: 2, Limit: 5, SearchTerm: "go lang"})
	if err != nil {
		t.Fatalf("ListBlogs: %v", err)
	}
	if gotQuery["page"] != "2" || gotQuery["limit"] != "5" || gotQuery["searchTerm"] != "go lang" {
		t.Errorf("query = %v", gotQuery)
	}
	if res.Metadata.TotalPages != 3 {
		t.Errorf("TotalPages = %d", res.Metadata.TotalPages)
	}
	if len(res.Data) != 1 || res.Data[0]["title"] != "Hello" {
		t.Fatalf("Data = %v", res.Data)
	}
	author, ok := res.Data[0]["author"].(map[string]any)
	if !ok || author["firstName"] != "Ada" {
		t.Errorf("nested author = %#v", res.Data[0]["author"])
	}
}

func TestListBlogsEmptySearchTermIsSent(t *testing.T) {
	c := NewClient("http://api.test/blog/getAllBlogs?x=1")
	got, err := c.URL(Query{Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := "http://api.test/blog/getAllBlogs?limit=10&page=1&searchTerm=&x=1"
	if got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestListBlogsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListBlogs(context.Background(), Query{Page: 1, Limit: 10})
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
}

func TestListBlogsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).ListBlogs(context.Background(), Query{Page: 1, Limit: 10}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestListBlogsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewClient(url).ListBlogs(context.Background(), Query{Page: 1, Limit: 10}); err == nil {
		t.Fatal("expected transport error")
	}
}
