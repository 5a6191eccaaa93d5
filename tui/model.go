// Package tui is the terminal front-end for the blog list: the same
// table and listing core as the web UI, driven by bubbletea.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/listing"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/table"
)

// fetchedMsg carries the outcome of one listing request.
type fetchedMsg struct {
	req listing.Request
	res blogapi.Result
	err error
}

// commitMsg signals that the debounced search term was committed.
type commitMsg struct{}

// Options configures the terminal front-end.
type Options struct {
	Logger   *slog.Logger
	PageSize int
	Quiet    time.Duration
}

// Model is the bubbletea model of the blog list.
type Model struct {
	ctx     context.Context
	logger  *slog.Logger
	page    *listing.Page
	toasts  *notify.Recorder
	commits chan struct{}

	search    textinput.Model
	searching bool
	panel     viewport.Model

	cursor int
	status string
	width  int
	height int
}

// New mounts the blog list over fetcher.
func New(ctx context.Context, fetcher listing.Fetcher, opts Options) *Model {
	m := &Model{
		ctx:     ctx,
		logger:  opts.Logger,
		toasts:  &notify.Recorder{},
		commits: make(chan struct{}, 1),
		panel:   viewport.New(40, 20),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.page = listing.New(fetcher, listing.Options{
		Logger:   opts.Logger,
		Notifier: m.toasts,
		PageSize: opts.PageSize,
		Quiet:    opts.Quiet,
		// Runs on the debounce timer goroutine; the event loop picks the
		// signal up through waitForCommit.
		OnSearchCommit: func(string) {
			select {
			case m.commits <- struct{}{}:
			default:
			}
		},
	})

	if m.logger == nil {
		m.logger = slog.Default()
	}

	m.search = textinput.New()
	m.search.Placeholder = "Search..."
	m.search.Prompt = "/ "
	m.search.CharLimit = 200
	return m
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(ctx context.Context, fetcher listing.Fetcher, opts Options) error {
	m := New(ctx, fetcher, opts)
	defer m.page.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init starts the first fetch and the commit listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), waitForCommit(m.commits))
}

// waitForCommit returns a Cmd that blocks until the next search commit.
func waitForCommit(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return commitMsg{}
	}
}

// fetch starts a request when the table's query changed since the last one.
func (m *Model) fetch() tea.Cmd {
	if !m.page.NeedsFetch() {
		return nil
	}
	return m.request()
}

func (m *Model) request() tea.Cmd {
	req := m.page.Begin()
	page := m.page
	ctx := m.ctx
	return func() tea.Msg {
		res, err := page.Fetch(ctx, req)
		return fetchedMsg{req: req, res: res, err: err}
	}
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanel()

	case fetchedMsg:
		if m.page.Complete(msg.req, msg.res, msg.err) {
			m.clampCursor()
		}
		// A page pulled back into range needs one more fetch.
		cmd = m.fetch()

	case commitMsg:
		cmd = tea.Batch(m.fetch(), waitForCommit(m.commits))

	case tea.KeyMsg:
		if m.searching {
			cmd = m.handleSearchKey(msg)
		} else {
			cmd = m.handleKey(msg)
		}
	}

	m.takeToasts()
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	t := m.page.Table()
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.searching = false
		m.search.Blur()
		return nil
	case "enter":
		m.searching = false
		m.search.Blur()
		t.FlushSearch()
		return m.fetch()
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		t.EditSearch(v)
	}
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	t := m.page.Table()
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "/":
		m.searching = true
		return m.search.Focus()
	case "left", "h":
		t.Navigate(table.NavPrev)
	case "right", "l":
		t.Navigate(table.NavNext)
	case "home", "g":
		t.Navigate(table.NavFirst)
	case "end", "G":
		t.Navigate(table.NavLast)
	case "s":
		if _, err := t.SetPageSize(nextPageSize(t.Footer().PageSize)); err != nil {
			m.report("page size", err)
		}
		m.cursor = 0
	case "r":
		return m.request()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(t.Rows())-1 {
			m.cursor++
		}
	case "enter", "v":
		if err := m.page.Select(m.cursor); err != nil {
			m.report("view", err)
		} else {
			m.updatePanel()
		}
	case "e":
		if err := t.Invoke(table.ActionEdit, m.cursor); err != nil {
			m.report("edit", err)
		}
	case "d":
		if err := t.Invoke(table.ActionDelete, m.cursor); err != nil {
			m.report("delete", err)
		}
	case "esc":
		m.page.ClosePanel()
	}
	return m.fetch()
}

// report logs a failed key action and shows it in the status line.
func (m *Model) report(action string, err error) {
	m.logger.Debug("key action failed", "action", action, "cursor", m.cursor, "err", err)
	m.status = action + ": " + err.Error()
}

func (m *Model) quit() tea.Cmd {
	m.page.Close()
	return tea.Quit
}

// nextPageSize cycles through the allowed page sizes.
func nextPageSize(current int) int {
	for i, n := range table.PageSizes {
		if n == current {
			return table.PageSizes[(i+1)%len(table.PageSizes)]
		}
	}
	return table.DefaultPageSize
}

func (m *Model) clampCursor() {
	n := len(m.page.Table().Rows())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) takeToasts() {
	toasts := m.toasts.Drain()
	if len(toasts) == 0 {
		return
	}
	last := toasts[len(toasts)-1]
	m.status = fmt.Sprintf("%s %s", last.Title, last.Message)
}

func itoa(n int) string { return fmt.Sprint(n) }
