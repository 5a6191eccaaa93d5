package listing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/table"
)

type fakeFetcher struct {
	mu      sync.Mutex
	queries []blogapi.Query
	result  func(q blogapi.Query) (blogapi.Result, error)
}

func (f *fakeFetcher) ListBlogs(_ context.Context, q blogapi.Query) (blogapi.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.result(q)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scenarioResult(blogapi.Query) (blogapi.Result, error) {
	return blogapi.Result{
		Data:     []table.Row{{"_id": "1", "title": "Hello", "status": "draft"}},
		Metadata: blogapi.Metadata{TotalPages: 3},
	}, nil
}

func TestRefreshScenario(t *testing.T) {
	f := &fakeFetcher{result: scenarioResult}
	p := New(f, Options{Logger: quietLogger(), PageSize: 10})
	defer p.Close()

	if p.Status() != StatusIdle {
		t.Fatalf("initial status = %v", p.Status())
	}
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Status() != StatusSuccess {
		t.Errorf("status = %v, want success", p.Status())
	}
	body := p.Table().Body()
	if body.State != table.BodyData || len(body.Rows) != 1 {
		t.Fatalf("body = %+v", body)
	}
	want := []string{"1", "Hello", "", "draft", ""}
	for i, cell := range body.Rows[0].Cells {
		if cell != want[i] {
			t.Errorf("cell %d = %q, want %q", i, cell, want[i])
		}
	}
	if got := p.Table().Footer().Label; got != "Page 1 of 3" {
		t.Errorf("footer = %q", got)
	}
	if q := f.queries[0]; q.Page != 1 || q.Limit != 10 || q.SearchTerm != "" {
		t.Errorf("query = %+v", q)
	}
}

func TestFailureKeepsStaleData(t *testing.T) {
	fail := false
	f := &fakeFetcher{result: func(q blogapi.Query) (blogapi.Result, error) {
		if fail {
			return blogapi.Result{}, errors.New("network down")
		}
		return scenarioResult(q)
	}}
	p := New(f, Options{Logger: quietLogger()})
	defer p.Close()
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	fail = true
	p.Table().Navigate(table.NavNext)
	if err := p.Sync(context.Background()); err == nil {
		t.Fatal("expected error from Sync")
	}
	if p.Status() != StatusFailed {
		t.Errorf("status = %v, want failed", p.Status())
	}
	if p.Table().Loading() {
		t.Error("loading flag should be cleared after failure")
	}
	if rows := p.Table().Rows(); len(rows) != 1 || rows[0]["title"] != "Hello" {
		t.Errorf("stale rows lost: %v", rows)
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	f := &fakeFetcher{result: scenarioResult}
	p := New(f, Options{Logger: quietLogger()})
	defer p.Close()

	first := p.Begin()
	p.Table().CommitSearch("go")
	second := p.Begin()

	older := blogapi.Result{Data: []table.Row{{"title": "old"}}, Metadata: blogapi.Metadata{TotalPages: 1}}
	newer := blogapi.Result{Data: []table.Row{{"title": "new"}}, Metadata: blogapi.Metadata{TotalPages: 1}}

	if !p.Complete(second, newer, nil) {
		t.Fatal("latest response rejected")
	}
	if p.Complete(first, older, nil) {
		t.Fatal("stale response applied")
	}
	if rows := p.Table().Rows(); rows[0]["title"] != "new" {
		t.Errorf("rows = %v, want the newer page", rows)
	}
}

func TestNeedsFetchFollowsQuery(t *testing.T) {
	f := &fakeFetcher{result: scenarioResult}
	p := New(f, Options{Logger: quietLogger()})
	defer p.Close()

	if !p.NeedsFetch() {
		t.Fatal("a fresh page needs a fetch")
	}
	if err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.NeedsFetch() {
		t.Fatal("settled page should not need a fetch")
	}
	if err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(f.queries) != 1 {
		t.Errorf("Sync without changes fetched again: %d queries", len(f.queries))
	}
	p.Table().SetPageSize(20)
	if !p.NeedsFetch() {
		t.Error("page size change should need a fetch")
	}
}

func TestRefreshRefetchesClampedPage(t *testing.T) {
	f := &fakeFetcher{result: func(q blogapi.Query) (blogapi.Result, error) {
		return blogapi.Result{Data: []table.Row{{"_id": "x"}}, Metadata: blogapi.Metadata{TotalPages: 2}}, nil
	}}
	p := New(f, Options{Logger: quietLogger()})
	defer p.Close()
	p.Table().SetData(nil, 5)
	p.Table().GoTo(5)

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(f.queries) != 2 || f.queries[1].Page != 2 {
		t.Fatalf("queries = %+v, want a second fetch for page 2", f.queries)
	}
	if p.NeedsFetch() {
		t.Error("page should be settled")
	}
}

func TestPanelSelectAndClose(t *testing.T) {
	f := &fakeFetcher{result: func(blogapi.Query) (blogapi.Result, error) {
		return blogapi.Result{
			Data: []table.Row{{
				"_id":       "1",
				"title":     "Hello",
				"status":    "published",
				"thumbnail": "https://cdn.example.com/a.jpg",
				"author":    map[string]any{"firstName": "Ada", "lastName": "Lovelace"},
				"content":   `<p>Hi<script>alert(1)</script></p>`,
			}},
			Metadata: blogapi.Metadata{TotalPages: 1},
		}, nil
	}}
	p := New(f, Options{Logger: quietLogger()})
	defer p.Close()
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, open := p.Panel(); open {
		t.Fatal("panel open before selection")
	}
	if err := p.Select(0); err != nil {
		t.Fatal(err)
	}
	d, open := p.Panel()
	if !open {
		t.Fatal("panel should be open")
	}
	if d.Title != "Hello" || d.Author != "Ada Lovelace" || d.Status != "published" {
		t.Errorf("detail = %+v", d)
	}
	if strings.Contains(d.ContentHTML, "script") {
		t.Errorf("content not sanitised: %q", d.ContentHTML)
	}
	if d.ContentText != "Hi" {
		t.Errorf("ContentText = %q", d.ContentText)
	}

	p.ClosePanel()
	if _, open := p.Panel(); open {
		t.Error("panel still open")
	}
	if len(p.Table().Rows()) != 1 {
		t.Error("closing the panel cleared the rows")
	}
	if err := p.Select(3); !errors.Is(err, table.ErrRowIndex) {
		t.Errorf("Select(3) = %v", err)
	}
}

func TestEditAndDeleteNotify(t *testing.T) {
	rec := &notify.Recorder{}
	f := &fakeFetcher{result: scenarioResult}
	p := New(f, Options{Logger: quietLogger(), Notifier: rec})
	defer p.Close()
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Table().Invoke(table.ActionEdit, 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Table().Invoke(table.ActionDelete, 0); err != nil {
		t.Fatal(err)
	}
	toasts := rec.Drain()
	if len(toasts) != 2 || toasts[0].Title != "Edit blog" || toasts[1].Title != "Delete blog" {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestDetailOfMissingAuthor(t *testing.T) {
	d := DetailOf(table.Row{"title": "x"})
	if d.Author != "" {
		t.Errorf("Author = %q, want empty", d.Author)
	}
}
