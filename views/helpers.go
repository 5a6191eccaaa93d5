package views

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubadmin/form"
	"github.com/eringen/pubadmin/table"
)

// HTMXSrc is the htmx build loaded by every page.
const HTMXSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Quill builds loaded by the create form's rich-text editor.
const (
	QuillSrc   = "https://unpkg.com/quill@2.0.3/dist/quill.js"
	QuillStyle = "https://unpkg.com/quill@2.0.3/dist/quill.snow.css"
	EditorSrc  = "/public/editor.js"
)

// Target ids swapped by htmx on the posts page.
const (
	TableTarget = "blog-table"
	PanelTarget = "side-panel"
)

// TagsURL receives tag entry key presses and chip removals.
const TagsURL = "/admin/posts/new/tags/"

// NavLink is one entry of the sidebar.
type NavLink struct {
	Label    string
	Href     string
	Children []NavLink
}

// SidebarLinks is the dashboard navigation.
var SidebarLinks = []NavLink{
	{Label: "Home", Href: "/admin/"},
	{Label: "Posts", Href: "/admin/posts/", Children: []NavLink{
		{Label: "All Posts", Href: "/admin/posts/"},
		{Label: "Add New Post", Href: "/admin/posts/new/"},
	}},
	{Label: "Categories", Href: "/admin/categories/"},
	{Label: "Tags", Href: "/admin/tags/"},
	{Label: "Settings", Href: "/admin/settings/"},
}

// csrfHeaders is the hx-headers value sending the CSRF token with every
// htmx request.
func csrfHeaders(token string) string {
	b, _ := json.Marshal(map[string]string{"X-CSRF-Token": token})
	return string(b)
}

func hxVals(kv map[string]string) string {
	b, _ := json.Marshal(kv)
	return string(b)
}

func pageTitle(shell Shell) string {
	if shell.Title == "" {
		return shell.Site.Name
	}
	return shell.Title + " | " + shell.Site.Name
}

func itoa(n int) string { return strconv.Itoa(n) }

// searchTrigger debounces the search box on the client by the quiet period.
func searchTrigger(delay time.Duration) string {
	if delay <= 0 {
		delay = table.SearchQuietPeriod
	}
	return fmt.Sprintf("input changed delay:%dms, search", delay.Milliseconds())
}

// colWidth turns a column hint such as "200px" into a width attribute
// value; "auto" yields "".
func colWidth(w string) string {
	if w == "" || w == "auto" {
		return ""
	}
	return strings.TrimSuffix(w, "px")
}

var actionLabels = map[table.Action]string{
	table.ActionView:   "View",
	table.ActionEdit:   "Edit",
	table.ActionDelete: "Delete",
}

// RowURL is the address of a row action.
func RowURL(base string, index int, a table.Action) string {
	u := strings.TrimSuffix(base, "/") + "/rows/" + itoa(index) + "/"
	if a == table.ActionView {
		return u
	}
	return u + a.String() + "/"
}

func navURL(action string, nav table.Nav) string {
	return action + "?nav=" + string(nav)
}

// EntryName is the input name of a tag field's entry box.
func EntryName(f form.Field) string { return string(f) + "Entry" }

// FieldID is the element id wrapping field f.
func FieldID(f form.Field) string { return "field-" + string(f) }

// EditorID is the element the rich-text editor mounts on.
func EditorID(f form.Field) string { return string(f) + "-editor" }

var fieldLabels = map[form.Field]string{
	form.FieldTitle:           "Title",
	form.FieldContent:         "Content",
	form.FieldTags:            "Tags",
	form.FieldCategory:        "Category",
	form.FieldSubcategory:     "Subcategory",
	form.FieldThumbnail:       "Thumbnail",
	form.FieldMetaTags:        "Meta Tags",
	form.FieldMetaDescription: "Meta Description",
}

func formState(fv FormView) *form.State {
	if fv.State == nil {
		return form.NewState()
	}
	return fv.State
}

// NotFound is the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return errorPage(site, "404", "Oops! Page not found.", "The page you are looking for does not exist or has been moved.")
}

// ServerError is the 500 page.
func ServerError(site SiteConfig) templ.Component {
	return errorPage(site, "500", "Something went wrong.", "Please try again in a moment.")
}
