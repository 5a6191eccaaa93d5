// Package listing is the blog list page: it owns the remote fetch, the
// fetched rows and page count, and the detail side panel.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/table"
)

// Fetcher loads one page of blogs.
type Fetcher interface {
	ListBlogs(ctx context.Context, q blogapi.Query) (blogapi.Result, error)
}

// Status is the fetch state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Columns are the blog table's columns.
var Columns = []table.Column{
	{Label: "ID", Field: "_id", Width: "200px"},
	{Label: "Title", Field: "title", Width: "200px"},
	{Label: "Author", Field: "author.firstName"},
	{Label: "Status", Field: "status"},
	{Label: "Active", Field: "isActive", Width: "80px"},
}

// Request identifies one fetch. Seq orders requests; only the response
// to the most recent request is applied.
type Request struct {
	Seq   uint64
	Query table.Query
}

// Options configures a Page.
type Options struct {
	Logger   *slog.Logger
	Notifier notify.Notifier
	PageSize int
	// Quiet overrides the search quiet period.
	Quiet time.Duration
	// OnSearchCommit runs on the debouncer goroutine when the committed
	// search term changes.
	OnSearchCommit func(term string)
}

// Page is the blog list page.
type Page struct {
	mu        sync.Mutex
	fetcher   Fetcher
	logger    *slog.Logger
	notifier  notify.Notifier
	table     *table.Table
	status    Status
	seq       uint64
	requested *table.Query
	selected  table.Row
	panelOpen bool
}

// New mounts a Page.
func New(fetcher Fetcher, opts Options) *Page {
	p := &Page{
		fetcher:  fetcher,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.notifier == nil {
		p.notifier = notify.Discard
	}
	p.table = table.New(table.Config{
		Columns:  Columns,
		PageSize: opts.PageSize,
		Quiet:    opts.Quiet,
		Handlers: table.Handlers{
			View:   p.open,
			Edit:   p.edit,
			Delete: p.delete,
		},
		OnSearchCommit: opts.OnSearchCommit,
	})
	return p
}

// Table returns the page's table.
func (p *Page) Table() *table.Table { return p.table }

// Close unmounts the table, cancelling any pending search commit.
func (p *Page) Close() { p.table.Unmount() }

// Status returns the fetch state.
func (p *Page) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// NeedsFetch reports whether the table's query differs from the last
// one requested, or nothing has been requested yet.
func (p *Page) NeedsFetch() bool {
	q := p.table.Query()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requested == nil || *p.requested != q
}

// Begin enters the loading state for the table's current query.
func (p *Page) Begin() Request {
	q := p.table.Query()
	p.mu.Lock()
	p.seq++
	req := Request{Seq: p.seq, Query: q}
	p.requested = &q
	p.status = StatusLoading
	p.mu.Unlock()
	p.table.SetLoading(true)
	return req
}

// Fetch performs the request against the remote listing.
func (p *Page) Fetch(ctx context.Context, req Request) (blogapi.Result, error) {
	return p.fetcher.ListBlogs(ctx, blogapi.Query{
		Page:       req.Query.Page,
		Limit:      req.Query.PageSize,
		SearchTerm: req.Query.SearchTerm,
	})
}

// Complete applies the outcome of req. A response to anything but the
// latest request is dropped and Complete returns false. On failure the
// error is logged and the previous rows stay on screen.
func (p *Page) Complete(req Request, res blogapi.Result, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if req.Seq != p.seq {
		p.logger.Debug("dropping stale blog page", "seq", req.Seq, "latest", p.seq)
		return false
	}
	if err != nil {
		p.status = StatusFailed
		p.table.SetLoading(false)
		p.logger.Error("error fetching blogs",
			"page", req.Query.Page,
			"limit", req.Query.PageSize,
			"searchTerm", req.Query.SearchTerm,
			"err", err)
		return true
	}
	p.table.SetData(res.Data, res.Metadata.TotalPages)
	p.table.SetLoading(false)
	p.status = StatusSuccess
	return true
}

// Refresh fetches synchronously until the table's query is settled.
// A page pulled back into range by a smaller page count triggers one
// more fetch for the clamped page.
func (p *Page) Refresh(ctx context.Context) error {
	for i := 0; i < 2; i++ {
		req := p.Begin()
		res, err := p.Fetch(ctx, req)
		p.Complete(req, res, err)
		if err != nil {
			return err
		}
		if !p.NeedsFetch() {
			return nil
		}
	}
	return nil
}

// Sync refreshes only if the query changed since the last request.
func (p *Page) Sync(ctx context.Context) error {
	if !p.NeedsFetch() {
		return nil
	}
	return p.Refresh(ctx)
}

// Select opens the side panel on the row at index.
func (p *Page) Select(index int) error {
	return p.table.Invoke(table.ActionView, index)
}

// ClosePanel hides the side panel and forgets the selected row. The
// fetched rows are kept.
func (p *Page) ClosePanel() {
	p.mu.Lock()
	p.panelOpen = false
	p.selected = nil
	p.mu.Unlock()
}

// Panel returns the detail view of the selected row when the panel is open.
func (p *Page) Panel() (Detail, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.panelOpen {
		return Detail{}, false
	}
	return DetailOf(p.selected), true
}

func (p *Page) open(row table.Row) {
	p.mu.Lock()
	p.selected = row
	p.panelOpen = true
	p.mu.Unlock()
}

func (p *Page) edit(row table.Row) {
	p.logger.Debug("edit requested", "id", table.Cell(row, Columns[0]))
	p.notifier.Notify(notify.Info, "Edit blog", fmt.Sprintf("Editing %q is not available yet.", titleOf(row)))
}

func (p *Page) delete(row table.Row) {
	p.logger.Debug("delete requested", "id", table.Cell(row, Columns[0]))
	p.notifier.Notify(notify.Info, "Delete blog", fmt.Sprintf("Deleting %q is not available yet.", titleOf(row)))
}

func titleOf(row table.Row) string {
	return table.Cell(row, table.Column{Field: "title"})
}
