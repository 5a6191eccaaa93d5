package pubadmin

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// RenderPartial writes an htmx fragment followed by any toasts as an
// out-of-band swap.
func RenderPartial(c echo.Context, cmp templ.Component, toasts []notify.Toast) error {
	if len(toasts) == 0 {
		return Render(c, cmp)
	}
	return Render(c, templ.Join(cmp, views.Toasts(toasts, true)))
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{Name: a.Config.Name, URL: a.Config.URL}
}

// shell builds the dashboard chrome for the current request, consuming
// any flashed toasts.
func (a *App) shell(c echo.Context, title, active string, toasts ...notify.Toast) views.Shell {
	return views.Shell{
		Site:   a.site(),
		User:   views.User{Name: a.Config.AdminName, Email: a.Config.AdminEmail, Role: "Administrator"},
		Title:  title,
		Active: active,
		CSRF:   CsrfToken(c),
		Toasts: append(takeFlashes(c), toasts...),
	}
}
