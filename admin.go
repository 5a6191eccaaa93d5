package pubadmin

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.Login(views.LoginView{
			Site:   a.site(),
			CSRF:   CsrfToken(c),
			Toasts: takeFlashes(c),
		}))
	}
	return a.renderDashboard(c)
}

func (a *App) renderDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	stats := []views.Stat{
		{Label: "Rows per page", Value: strconv.Itoa(a.Config.PageSize)},
	}
	res, err := a.API.ListBlogs(ctx, blogapi.Query{Page: 1, Limit: a.Config.PageSize})
	switch {
	case err != nil:
		a.Logger.WarnContext(ctx, "dashboard stats unavailable", "err", err)
		stats = append(stats, views.Stat{Label: "Listing API", Value: "unavailable"})
	case res.Metadata.Total > 0:
		stats = append(stats, views.Stat{Label: "Posts", Value: strconv.Itoa(res.Metadata.Total)})
	default:
		stats = append(stats, views.Stat{Label: "Pages of posts", Value: strconv.Itoa(max(res.Metadata.TotalPages, 1))})
	}
	return Render(c, views.Dashboard(a.shell(c, "Dashboard", "/admin/"), stats))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	email := strings.TrimSpace(c.FormValue("email"))
	pass := c.FormValue("password")
	remember := c.FormValue("remember") != ""

	fail := func(message string) error {
		a.loginLimiter.Record(ip)
		a.Logger.WarnContext(c.Request().Context(), "login failed", "ip", ip, "reason", message)
		return RenderStatus(c, http.StatusUnauthorized, views.Login(views.LoginView{
			Site:     a.site(),
			Email:    email,
			Remember: remember,
			CSRF:     CsrfToken(c),
			Toasts:   []notify.Toast{{Kind: notify.Error, Title: "Login failed.", Message: message}},
		}))
	}
	if email == "" || pass == "" {
		return fail("Please enter both email and password.")
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(a.Config.AdminEmail))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1
	if !emailOK || !passOK {
		return fail("Invalid email or password.")
	}

	if _, err := setAdminSession(c, email, remember); err != nil {
		return err
	}
	if err := addFlash(c, notify.Toast{Kind: notify.Success, Title: "Login successful.", Message: "Welcome back, " + a.Config.AdminName + "!"}); err != nil {
		return err
	}
	a.Logger.InfoContext(c.Request().Context(), "login succeeded", "ip", ip, "remember", remember)
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	sid, err := clearAdminSession(c)
	if err != nil {
		return err
	}
	if sid != "" {
		a.pages.drop(sid)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// section is a sidebar destination without its own screen yet.
type section struct {
	path  string
	title string
}

var sections = []section{
	{path: "/categories/", title: "Categories"},
	{path: "/tags/", title: "Tags"},
	{path: "/settings/", title: "Settings"},
}

func (a *App) handleSection(s section) echo.HandlerFunc {
	return func(c echo.Context) error {
		return Render(c, views.Section(a.shell(c, s.title, "/admin"+s.path)))
	}
}
