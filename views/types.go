// Package views renders the admin UI as templ components.
package views

import (
	"time"

	"github.com/eringen/pubadmin/form"
	"github.com/eringen/pubadmin/listing"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/table"
)

// SiteConfig carries the site-level values templates need.
type SiteConfig struct {
	Name string
	URL  string
}

// User is the signed-in administrator shown in the header.
type User struct {
	Name  string
	Email string
	Role  string
}

// Shell is everything the dashboard chrome needs.
type Shell struct {
	Site   SiteConfig
	User   User
	Title  string
	Active string // path of the active sidebar link
	CSRF   string
	Toasts []notify.Toast
}

// TableView is the render-ready paginated table.
type TableView struct {
	Action      string // listing URL, e.g. "/admin/posts/"
	Body        table.Body
	Footer      table.Footer
	Search      table.SearchState
	SearchDelay time.Duration
	CSRF        string
}

// PostsView is the blog list page.
type PostsView struct {
	Table TableView
	Panel *listing.Detail
	CSRF  string
}

// FormView is the blog create form.
type FormView struct {
	State  *form.State
	Errors form.Errors
	CSRF   string
}

// LoginView is the login screen.
type LoginView struct {
	Site     SiteConfig
	Email    string
	Remember bool
	CSRF     string
	Toasts   []notify.Toast
}

// Stat is one dashboard figure.
type Stat struct {
	Label string
	Value string
}
