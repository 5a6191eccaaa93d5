package pubadmin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/blogapi"
)

// localAPIPath is where the local listing API is mounted.
const localAPIPath = "/api/blog/getAllBlogs"

func intParam(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// handleListBlogs serves the listing contract from the local store.
func (a *App) handleListBlogs(c echo.Context) error {
	q := blogapi.Query{
		Page:       intParam(c, "page"),
		Limit:      intParam(c, "limit"),
		SearchTerm: c.QueryParam("searchTerm"),
	}
	res, err := a.Cache.Page(c.Request().Context(), q)
	if err != nil {
		a.Logger.ErrorContext(c.Request().Context(), "list blogs failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "failed to list blogs"})
	}
	return c.JSON(http.StatusOK, res)
}
