package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/pubadmin/form"
	"github.com/eringen/pubadmin/listing"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/table"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return sb.String()
}

func assertContains(t *testing.T, html string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(html, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func scenarioTable() TableView {
	rows := []table.Row{{"_id": "1", "title": "Hello", "status": "draft"}}
	cols := []table.Column{
		{Label: "ID", Field: "_id", Width: "200px"},
		{Label: "Title", Field: "title"},
		{Label: "Status", Field: "status"},
	}
	return TableView{
		Action: "/admin/posts/",
		Body:   table.RenderRows(cols, rows, false, table.Handlers{View: func(table.Row) {}, Delete: func(table.Row) {}}),
		Footer: table.Footer{
			PageState: table.PageState{Page: 1, PageSize: 10, TotalPages: 3},
			Label:     "Page 1 of 3",
			CanNext:   true,
		},
		CSRF: "tok",
	}
}

func TestBlogTableData(t *testing.T) {
	html := render(t, BlogTable(scenarioTable()))
	assertContains(t, html,
		`id="blog-table"`,
		`<caption>Data List</caption>`,
		`<th scope="col" width="200">ID</th>`,
		`<td>1</td><td>Hello</td><td>draft</td>`,
		`Page 1 of 3`,
		`hx-get="/admin/posts/rows/0/"`,
		`action="/admin/posts/rows/0/delete/"`,
		`<option value="10" selected>`,
		`hx-trigger="input changed delay:500ms, search"`,
	)
	if strings.Contains(html, "/rows/0/edit/") {
		t.Errorf("edit action rendered without a handler")
	}
	// On page 1 the backward controls are disabled.
	assertContains(t, html, `<button type="button" disabled>Previous</button>`, `<button type="button" disabled>First Page</button>`)
	assertContains(t, html, `href="/admin/posts/?nav=next"`, `href="/admin/posts/?nav=last"`)
}

func TestBlogTableStates(t *testing.T) {
	tv := scenarioTable()
	tv.Body = table.RenderRows(nil, nil, true, table.Handlers{})
	assertContains(t, render(t, BlogTable(tv)), `<tr class="loading">`)

	tv.Body = table.RenderRows([]table.Column{{Label: "ID", Field: "_id"}}, nil, false, table.Handlers{})
	assertContains(t, render(t, BlogTable(tv)), `<tr class="empty"><td colspan="1">No data found.</td></tr>`)
}

func TestBlogTableEscapesCells(t *testing.T) {
	tv := scenarioTable()
	rows := []table.Row{{"title": "<script>x</script>"}}
	tv.Body = table.RenderRows([]table.Column{{Label: "Title", Field: "title"}}, rows, false, table.Handlers{})
	html := render(t, BlogTable(tv))
	if strings.Contains(html, "<script>x") {
		t.Fatalf("cell was not escaped: %s", html)
	}
}

func TestSidePanel(t *testing.T) {
	if html := render(t, SidePanel(nil, "")); !strings.Contains(html, "hidden") {
		t.Errorf("closed panel should be hidden: %s", html)
	}
	d := listing.Detail{Title: "Hello", Author: "Ada Lovelace", Status: "draft", ContentHTML: "<p>body</p>", Thumbnail: "javascript:alert(1)"}
	html := render(t, SidePanel(&d, "tok"))
	assertContains(t, html, "<h2>Hello</h2>", "Ada Lovelace", "<p>body</p>", ">Back<", ">Close<")
	if strings.Contains(html, "javascript:") {
		t.Errorf("unsafe thumbnail url rendered: %s", html)
	}
}

func TestTagField(t *testing.T) {
	s := form.NewState()
	s.Values.Tags = []string{"go", "web"}
	s.Entries[form.FieldTags] = "dra"
	html := render(t, TagField(FormView{State: s, Errors: form.Errors{form.FieldTags: "At least one tag is required"}}, form.FieldTags))
	assertContains(t, html,
		`id="field-tags"`,
		`name="tags" value="go"`,
		`name="tags" value="web"`,
		`name="tagsEntry" value="dra"`,
		`At least one tag is required`,
	)
}

func TestPostFormKeepsValues(t *testing.T) {
	s := form.NewState()
	s.Values.Title = "Hello"
	s.Values.Category = "tech"
	html := render(t, PostForm(FormView{State: s, CSRF: "tok"}))
	assertContains(t, html,
		`name="title" value="Hello"`,
		`<option value="tech" selected>Tech</option>`,
		`name="_csrf" value="tok"`,
		`enctype="multipart/form-data"`,
		`id="field-metaTags"`,
	)
	if strings.Contains(html, `class="error"`) {
		t.Errorf("untouched form rendered errors")
	}
}

func TestPostFormRichTextEditor(t *testing.T) {
	s := form.NewState()
	s.Values.Content = "<p>Draft <em>body</em></p>"
	html := render(t, PostForm(FormView{State: s}))
	assertContains(t, html,
		`<div id="content-editor" class="editor" data-rich-text="content"></div>`,
		`<input type="hidden" id="content" name="content" value="&lt;p&gt;Draft &lt;em&gt;body&lt;/em&gt;&lt;/p&gt;">`,
		`<noscript><textarea name="content" rows="12">`,
		`<script src="`+QuillSrc+`"></script>`,
		`<link rel="stylesheet" href="`+QuillStyle+`">`,
		`<script src="/public/editor.js"></script>`,
	)
	// Without scripts the textarea must be the first "content" value posted.
	if strings.Index(html, `<textarea name="content"`) > strings.Index(html, `type="hidden" id="content"`) {
		t.Errorf("noscript textarea should precede the hidden input")
	}
}

func TestPageShell(t *testing.T) {
	shell := Shell{
		Site:   SiteConfig{Name: "Admin"},
		User:   User{Name: "Admin", Role: "Administrator"},
		Title:  "Posts",
		Active: "/admin/posts/",
		CSRF:   "tok",
		Toasts: []notify.Toast{{Kind: notify.Success, Title: "Login successful.", Message: "Welcome back, Admin!"}},
	}
	html := render(t, Page(shell, nil))
	assertContains(t, html,
		"<title>Posts | Admin</title>",
		HTMXSrc,
		`hx-headers="{&#34;X-CSRF-Token&#34;:&#34;tok&#34;}"`,
		`href="/admin/posts/new/">Add New Post`,
		`class="toast toast-success"`,
		"Welcome back, Admin!",
		"Sign out",
	)
	if n := strings.Count(html, `aria-current="page"`); n != 2 {
		t.Errorf("active links = %d, want 2 (Posts and All Posts)", n)
	}
}

func TestNotFound(t *testing.T) {
	assertContains(t, render(t, NotFound(SiteConfig{Name: "Admin"})), "Oops! Page not found.", `href="/admin/"`)
}
