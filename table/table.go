package table

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

var (
	// ErrNoHandler is returned when invoking an action the caller did not supply.
	ErrNoHandler = errors.New("table: action not available")
	// ErrRowIndex is returned for an index outside the current page.
	ErrRowIndex = errors.New("table: row index out of range")
)

// Nav is a pagination control.
type Nav string

const (
	NavFirst Nav = "first"
	NavPrev  Nav = "prev"
	NavNext  Nav = "next"
	NavLast  Nav = "last"
)

// ParseNav accepts first, prev, next or last.
func ParseNav(s string) (Nav, bool) {
	switch n := Nav(s); n {
	case NavFirst, NavPrev, NavNext, NavLast:
		return n, true
	}
	return "", false
}

// Query is the (page, pageSize, committed term) triple a fetch depends on.
type Query struct {
	Page       int
	PageSize   int
	SearchTerm string
}

// Footer is the render-ready pagination footer.
type Footer struct {
	PageState
	Label   string
	CanPrev bool
	CanNext bool
}

// Config configures a Table.
type Config struct {
	Columns    []Column
	Handlers   Handlers
	PageSize   int
	SearchTerm string
	// Quiet overrides SearchQuietPeriod.
	Quiet time.Duration
	// OnSearchCommit runs on the debouncer's goroutine after a committed
	// term changes.
	OnSearchCommit func(term string)
}

// Table composes the search debouncer, page controller and row renderer.
type Table struct {
	mu        sync.Mutex
	columns   []Column
	handlers  Handlers
	pages     *PageController
	search    *SearchDebouncer
	committed string
	rows      []Row
	loading   bool
	onCommit  func(string)
}

// New mounts a table.
func New(cfg Config) *Table {
	quiet := cfg.Quiet
	if quiet <= 0 {
		quiet = SearchQuietPeriod
	}
	t := &Table{
		columns:   cfg.Columns,
		handlers:  cfg.Handlers,
		pages:     NewPageController(cfg.PageSize),
		committed: cfg.SearchTerm,
		onCommit:  cfg.OnSearchCommit,
	}
	t.search = NewSearchDebouncer(cfg.SearchTerm, quiet, t.commit)
	return t
}

// Unmount cancels any pending search commit.
func (t *Table) Unmount() { t.search.Stop() }

// Columns returns the column descriptors.
func (t *Table) Columns() []Column { return t.columns }

// Query returns the state the next fetch should use.
func (t *Table) Query() Query {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.pages.State()
	return Query{Page: s.Page, PageSize: s.PageSize, SearchTerm: t.committed}
}

// Search returns the committed term and the current draft.
func (t *Table) Search() SearchState {
	t.mu.Lock()
	committed := t.committed
	t.mu.Unlock()
	return SearchState{Committed: committed, Draft: t.search.Draft()}
}

// EditSearch records a draft edit; it is committed after the quiet period.
func (t *Table) EditSearch(draft string) { t.search.Edit(draft) }

// FlushSearch commits the current draft immediately.
func (t *Table) FlushSearch() { t.search.Flush() }

// CommitSearch sets both draft and committed term directly. Front-ends
// that debounce on their own side call it.
func (t *Table) CommitSearch(term string) {
	t.search.Set(term)
	t.commit(term)
}

func (t *Table) commit(term string) {
	t.mu.Lock()
	changed := term != t.committed
	t.committed = term
	onCommit := t.onCommit
	t.mu.Unlock()
	if changed && onCommit != nil {
		onCommit(term)
	}
}

// Navigate applies a pagination control and reports whether the page moved.
func (t *Table) Navigate(nav Nav) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch nav {
	case NavFirst:
		return t.pages.First()
	case NavPrev:
		return t.pages.Prev()
	case NavNext:
		return t.pages.Next()
	case NavLast:
		return t.pages.Last()
	}
	return false
}

// GoTo moves to page n, clamped to the known range.
func (t *Table) GoTo(n int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pages.GoTo(n)
}

// SetPageSize changes the page size and resets to page 1.
func (t *Table) SetPageSize(n int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pages.SetPageSize(n)
}

// SetLoading sets the loading flag supplied by the owner.
func (t *Table) SetLoading(loading bool) {
	t.mu.Lock()
	t.loading = loading
	t.mu.Unlock()
}

// Loading reports the loading flag.
func (t *Table) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// SetData replaces the rows and page count. It reports whether the page
// had to be pulled back into range, which changes the Query.
func (t *Table) SetData(rows []Row, totalPages int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
	return t.pages.SetTotalPages(totalPages)
}

// Rows returns the current page's rows.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// Row returns a copy of the row at index.
func (t *Table) Row(index int) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.rows) {
		return nil, false
	}
	return maps.Clone(t.rows[index]), true
}

// Body renders the current rows.
func (t *Table) Body() Body {
	t.mu.Lock()
	defer t.mu.Unlock()
	return RenderRows(t.columns, t.rows, t.loading, t.handlers)
}

// Footer renders the pagination footer.
func (t *Table) Footer() Footer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Footer{
		PageState: t.pages.State(),
		Label:     t.pages.Label(),
		CanPrev:   t.pages.CanPrev(),
		CanNext:   t.pages.CanNext(),
	}
}

// Invoke runs the handler for action with the full row at index.
func (t *Table) Invoke(action Action, index int) error {
	fn := t.handlers.handler(action)
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNoHandler, action)
	}
	row, ok := t.Row(index)
	if !ok {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	fn(row)
	return nil
}
