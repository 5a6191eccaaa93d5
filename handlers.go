package pubadmin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/table"
	"github.com/eringen/pubadmin/views"
)

const postsPath = "/admin/posts/"

// withPage runs fn holding the signed-in session's blog list.
func (a *App) withPage(c echo.Context, fn func(*sessionPage) error) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	entry := a.pages.acquire(sid)
	defer entry.mu.Unlock()
	return fn(entry)
}

// applyTableQuery applies the posts page query string to t.
func applyTableQuery(c echo.Context, t *table.Table) error {
	switch nav := c.QueryParam("nav"); nav {
	case "":
	case "size":
		n, err := strconv.Atoi(c.QueryParam("limit"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page size")
		}
		if _, err := t.SetPageSize(n); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	default:
		n, ok := table.ParseNav(nav)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid navigation")
		}
		t.Navigate(n)
	}
	if c.QueryParams().Has("searchTerm") {
		t.CommitSearch(c.QueryParam("searchTerm"))
	}
	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		t.GoTo(n)
	}
	return nil
}

func (a *App) tableView(c echo.Context, t *table.Table) views.TableView {
	return views.TableView{
		Action:      postsPath,
		Body:        t.Body(),
		Footer:      t.Footer(),
		Search:      t.Search(),
		SearchDelay: a.Config.SearchDelay,
		CSRF:        CsrfToken(c),
	}
}

func (a *App) postsView(c echo.Context, e *sessionPage) views.PostsView {
	view := views.PostsView{Table: a.tableView(c, e.page.Table()), CSRF: CsrfToken(c)}
	if d, ok := e.page.Panel(); ok {
		view.Panel = &d
	}
	return view
}

func (a *App) handlePosts(c echo.Context) error {
	return a.withPage(c, func(e *sessionPage) error {
		t := e.page.Table()
		if err := applyTableQuery(c, t); err != nil {
			return err
		}
		// Fetch failures are logged by the page and the previous rows stay.
		_ = e.page.Sync(c.Request().Context())

		if isHTMX(c) && htmxTarget(c) == views.TableTarget {
			return RenderPartial(c, views.BlogTable(a.tableView(c, t)), e.toasts.Drain())
		}
		shell := a.shell(c, "All Posts", postsPath, e.toasts.Drain()...)
		return Render(c, views.Posts(shell, a.postsView(c, e)))
	})
}

func rowIndex(c echo.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid row")
	}
	return i, nil
}

func rowError(err error) error {
	if errors.Is(err, table.ErrRowIndex) {
		return echo.NewHTTPError(http.StatusNotFound, "row not found")
	}
	return err
}

func (a *App) handleRowView(c echo.Context) error {
	i, err := rowIndex(c)
	if err != nil {
		return err
	}
	return a.withPage(c, func(e *sessionPage) error {
		if err := e.page.Select(i); err != nil {
			return rowError(err)
		}
		if isHTMX(c) {
			d, _ := e.page.Panel()
			return RenderPartial(c, views.SidePanel(&d, CsrfToken(c)), e.toasts.Drain())
		}
		return c.Redirect(http.StatusSeeOther, postsPath)
	})
}

func (a *App) handleRowAction(c echo.Context) error {
	i, err := rowIndex(c)
	if err != nil {
		return err
	}
	action, ok := table.ParseAction(c.Param("action"))
	if !ok || action == table.ActionView {
		return echo.NewHTTPError(http.StatusNotFound, "unknown action")
	}
	return a.withPage(c, func(e *sessionPage) error {
		if err := e.page.Table().Invoke(action, i); err != nil {
			if errors.Is(err, table.ErrNoHandler) {
				return echo.NewHTTPError(http.StatusNotFound, "unknown action")
			}
			return rowError(err)
		}
		toasts := e.toasts.Drain()
		if isHTMX(c) {
			return Render(c, views.Toasts(toasts, true))
		}
		if err := addFlash(c, toasts...); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, postsPath)
	})
}

func (a *App) handlePanelClose(c echo.Context) error {
	return a.withPage(c, func(e *sessionPage) error {
		e.page.ClosePanel()
		if isHTMX(c) {
			return Render(c, views.SidePanel(nil, CsrfToken(c)))
		}
		return c.Redirect(http.StatusSeeOther, postsPath)
	})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !isHTMX(c) {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.ErrorContext(c.Request().Context(), "server error", "err", err, "uri", c.Request().RequestURI)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
