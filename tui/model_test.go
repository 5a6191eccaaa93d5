package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/table"
)

type fakeFetcher struct {
	mu      sync.Mutex
	queries []blogapi.Query
}

func (f *fakeFetcher) ListBlogs(_ context.Context, q blogapi.Query) (blogapi.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	row := table.Row{"_id": "1", "title": "Hello", "status": "draft", "content": "<p>Body text</p>"}
	if q.Page > 1 {
		row = table.Row{"_id": "2", "title": "Second", "status": "published"}
	}
	return blogapi.Result{
		Data:     []table.Row{row},
		Metadata: blogapi.Metadata{TotalPages: 3},
	}, nil
}

func (f *fakeFetcher) last() blogapi.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

const testQuiet = 40 * time.Millisecond

func newTestModel(t *testing.T) (*Model, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{}
	m := New(context.Background(), f, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Quiet:  testQuiet,
	})
	t.Cleanup(m.page.Close)
	// Run the first fetch the way Init would.
	send(t, m, run(t, m.fetch()))
	return m, f
}

// run executes cmd and returns its message.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialFetch(t *testing.T) {
	m, f := newTestModel(t)
	if q := f.last(); q.Page != 1 || q.Limit != 10 || q.SearchTerm != "" {
		t.Errorf("query = %+v", q)
	}
	v := m.View()
	for _, want := range []string{"Data List", "Hello", "draft", "Page 1 of 3"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestNextPage(t *testing.T) {
	m, f := newTestModel(t)
	cmd := send(t, m, key("right"))
	send(t, m, run(t, cmd))
	if q := f.last(); q.Page != 2 {
		t.Errorf("page = %d, want 2", q.Page)
	}
	if v := m.View(); !strings.Contains(v, "Page 2 of 3") || !strings.Contains(v, "Second") {
		t.Errorf("view after next:\n%s", v)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	m, _ := newTestModel(t)
	slow := m.request()
	fast := send(t, m, key("right"))

	send(t, m, run(t, fast))
	send(t, m, run(t, slow))
	if v := m.View(); !strings.Contains(v, "Second") {
		t.Errorf("older response overwrote the newer one:\n%s", v)
	}
}

func TestSearchDebounced(t *testing.T) {
	m, f := newTestModel(t)
	send(t, m, key("/"))
	for _, r := range "cat" {
		send(t, m, key(string(r)))
	}
	before := f.count()

	got := make(chan tea.Msg, 1)
	go func() { got <- waitForCommit(m.commits)() }()
	select {
	case msg := <-got:
		cmd := send(t, m, msg)
		// The batch holds the fetch and the next commit listener; run only
		// the fetch.
		batch, ok := run(t, cmd).(tea.BatchMsg)
		if !ok {
			t.Fatalf("expected a batch")
		}
		send(t, m, batch[0]())
	case <-time.After(time.Second):
		t.Fatal("search was not committed")
	}

	if f.count() != before+1 {
		t.Errorf("fetches after typing = %d, want 1", f.count()-before)
	}
	if q := f.last(); q.SearchTerm != "cat" {
		t.Errorf("searchTerm = %q, want cat", q.SearchTerm)
	}

	time.Sleep(3 * testQuiet)
	select {
	case <-m.commits:
		t.Error("more than one commit for one quiet period")
	default:
	}
}

func TestSearchEnterCommitsNow(t *testing.T) {
	m, f := newTestModel(t)
	send(t, m, key("/"))
	send(t, m, key("go"))
	cmd := send(t, m, key("enter"))
	send(t, m, run(t, cmd))
	if q := f.last(); q.SearchTerm != "go" {
		t.Errorf("searchTerm = %q, want go", q.SearchTerm)
	}
}

func TestPageSizeCycle(t *testing.T) {
	m, f := newTestModel(t)
	send(t, m, key("right"))
	cmd := send(t, m, key("s"))
	send(t, m, run(t, cmd))
	if q := f.last(); q.Limit != 20 || q.Page != 1 {
		t.Errorf("query = %+v, want limit 20 page 1", q)
	}
	if got := nextPageSize(20); got != 5 {
		t.Errorf("nextPageSize(20) = %d, want 5", got)
	}
}

func TestDetailPanel(t *testing.T) {
	m, _ := newTestModel(t)
	send(t, m, key("enter"))
	if _, ok := m.page.Panel(); !ok {
		t.Fatal("panel should open")
	}
	if v := m.View(); !strings.Contains(v, "Body text") || !strings.Contains(v, "esc: close") {
		t.Errorf("panel not rendered:\n%s", v)
	}
	send(t, m, key("esc"))
	if _, ok := m.page.Panel(); ok {
		t.Error("esc should close the panel")
	}
}

func TestEditNotifies(t *testing.T) {
	m, _ := newTestModel(t)
	send(t, m, key("e"))
	if !strings.Contains(m.status, "Edit blog") {
		t.Errorf("status = %q", m.status)
	}
}

func TestActionOnMissingRowShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = 5
	for _, k := range []string{"e", "d", "v"} {
		m.status = ""
		send(t, m, key(k))
		if !strings.Contains(m.status, "row index out of range") {
			t.Errorf("key %q: status = %q", k, m.status)
		}
	}
	if _, ok := m.page.Panel(); ok {
		t.Error("panel opened for a missing row")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := send(t, m, key("q"))
	if _, ok := run(t, cmd).(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestColumnWidths(t *testing.T) {
	headers := []table.Header{{Width: "200px"}, {Width: "auto"}, {Width: "80px"}, {Width: "auto"}}
	got := columnWidths(headers, 100)
	want := []int{26, 33, 8, 33}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columnWidths = %v, want %v", got, want)
		}
	}
}
