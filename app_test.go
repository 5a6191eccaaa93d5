package pubadmin

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/table"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAPI is a remote listing endpoint reporting 30 blogs.
type fakeAPI struct {
	mu      sync.Mutex
	queries []url.Values
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	res := blogapi.Result{Metadata: blogapi.Metadata{TotalPages: (30 + limit - 1) / limit}}
	if page == 1 {
		res.Data = []table.Row{{"_id": "1", "title": "Hello", "status": "draft"}}
	} else {
		res.Data = []table.Row{{"_id": strconv.Itoa(page), "title": "Post " + strconv.Itoa(page), "status": "published", "isActive": true}}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (f *fakeAPI) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

type testEnv struct {
	t      *testing.T
	app    *App
	srv    *httptest.Server
	api    *fakeAPI
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := &fakeAPI{}
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	a := New(SiteConfig{
		Name:          "Test Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret-pass",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		APIEndpoint:   apiSrv.URL + "/api/blog/getAllBlogs",
	}, WithLogger(discardLogger()))
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	srv := httptest.NewServer(a.Echo)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{t: t, app: a, srv: srv, api: api, client: &http.Client{Jar: jar}}
}

func (e *testEnv) csrf() string {
	u, _ := url.Parse(e.srv.URL)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == "_csrf" {
			return c.Value
		}
	}
	e.t.Fatal("no _csrf cookie; GET a page first")
	return ""
}

func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	e.t.Helper()
	resp, err := e.client.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.t.Fatal(err)
	}
	return resp, string(body)
}

func (e *testEnv) get(path string, headers map[string]string) (*http.Response, string) {
	e.t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	if err != nil {
		e.t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.do(req)
}

func (e *testEnv) post(path string, vals url.Values, headers map[string]string) (*http.Response, string) {
	e.t.Helper()
	if vals == nil {
		vals = url.Values{}
	}
	vals.Set("_csrf", e.csrf())
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(vals.Encode()))
	if err != nil {
		e.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.do(req)
}

func (e *testEnv) login() string {
	e.t.Helper()
	e.get("/admin/", nil)
	resp, body := e.post("/admin/login/", url.Values{
		"email":    {"admin@example.com"},
		"password": {"secret-pass"},
	}, nil)
	if resp.StatusCode != http.StatusOK {
		e.t.Fatalf("login status = %d", resp.StatusCode)
	}
	return body
}

func hx(target string) map[string]string {
	return map[string]string{"HX-Request": "true", "HX-Target": target}
}

func mustContain(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("body missing %q", w)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newTestEnv(t)
	_, body := e.get("/admin/", nil)
	mustContain(t, body, "Sign in", "Remember me")

	resp, body := e.post("/admin/login/", url.Values{"email": {"admin@example.com"}, "password": {"nope"}}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	mustContain(t, body, "Login failed.", "Invalid email or password.", `value="admin@example.com"`)

	_, body = e.post("/admin/login/", url.Values{"email": {""}, "password": {""}}, nil)
	mustContain(t, body, "Please enter both email and password.")
}

func TestLoginRateLimited(t *testing.T) {
	e := newTestEnv(t)
	e.get("/admin/", nil)
	for i := 0; i < 5; i++ {
		e.post("/admin/login/", url.Values{"email": {"x@example.com"}, "password": {"bad"}}, nil)
	}
	resp, _ := e.post("/admin/login/", url.Values{"email": {"admin@example.com"}, "password": {"secret-pass"}}, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
}

func TestLoginShowsWelcomeToastOnce(t *testing.T) {
	e := newTestEnv(t)
	body := e.login()
	mustContain(t, body, "Login successful.", "Welcome back, Admin!", "Dashboard")

	_, body = e.get("/admin/", nil)
	if strings.Contains(body, "Login successful.") {
		t.Error("flash toast shown twice")
	}
}

func TestPostsRequireLogin(t *testing.T) {
	e := newTestEnv(t)
	_, body := e.get("/admin/posts/", nil)
	mustContain(t, body, "Sign in")
	if q := e.api.last(); q != nil {
		t.Errorf("listing fetched before login: %v", q)
	}
}

func TestPostsTableFlow(t *testing.T) {
	e := newTestEnv(t)
	e.login()

	_, body := e.get("/admin/posts/", nil)
	mustContain(t, body,
		"<caption>Data List</caption>",
		"<td>1</td><td>Hello</td><td></td><td>draft</td><td></td>",
		"Page 1 of 3",
	)
	if q := e.api.last(); q.Get("page") != "1" || q.Get("limit") != "10" || q.Get("searchTerm") != "" {
		t.Errorf("first query = %v", q)
	}

	_, body = e.get("/admin/posts/?nav=next", hx("blog-table"))
	mustContain(t, body, `id="blog-table"`, "Page 2 of 3", "Post 2")
	if strings.Contains(body, "<html") {
		t.Error("htmx request got a full page")
	}

	_, body = e.get("/admin/posts/?searchTerm=cat", hx("blog-table"))
	if q := e.api.last(); q.Get("searchTerm") != "cat" || q.Get("page") != "2" {
		t.Errorf("search query = %v", q)
	}
	mustContain(t, body, `value="cat"`)

	_, body = e.get("/admin/posts/?nav=size&limit=20", hx("blog-table"))
	if q := e.api.last(); q.Get("limit") != "20" || q.Get("page") != "1" {
		t.Errorf("size query = %v", q)
	}
	mustContain(t, body, "Page 1 of 2", `<option value="20" selected>`)

	resp, _ := e.get("/admin/posts/?nav=size&limit=7", hx("blog-table"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid size status = %d, want 400", resp.StatusCode)
	}
}

func TestPostsUnchangedQueryDoesNotRefetch(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.get("/admin/posts/", nil)
	e.api.mu.Lock()
	n := len(e.api.queries)
	e.api.mu.Unlock()

	e.get("/admin/posts/", nil)
	e.api.mu.Lock()
	defer e.api.mu.Unlock()
	if len(e.api.queries) != n {
		t.Errorf("queries = %d, want %d", len(e.api.queries), n)
	}
}

func TestDetailPanel(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.get("/admin/posts/", nil)

	_, body := e.get("/admin/posts/rows/0/", hx("side-panel"))
	mustContain(t, body, `id="side-panel"`, "<h2>Hello</h2>", "draft")

	_, body = e.get("/admin/posts/", nil)
	mustContain(t, body, `class="side-panel open"`)

	_, body = e.post("/admin/posts/panel/close/", nil, hx("side-panel"))
	mustContain(t, body, `class="side-panel" hidden`)

	resp, _ := e.get("/admin/posts/rows/9/", hx("side-panel"))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing row status = %d, want 404", resp.StatusCode)
	}
}

func TestRowActionsNotify(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.get("/admin/posts/", nil)

	_, body := e.post("/admin/posts/rows/0/delete/", nil, hx("toasts"))
	mustContain(t, body, `hx-swap-oob="true"`, "Delete blog", "Deleting &#34;Hello&#34; is not available yet.")

	_, body = e.post("/admin/posts/rows/0/edit/", nil, nil)
	mustContain(t, body, "Edit blog", "<caption>Data List</caption>")
}

func TestNotFoundPage(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	resp, body := e.get("/admin/nope/", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	mustContain(t, body, "Oops! Page not found.")
}

func TestLogoutDropsTableState(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.get("/admin/posts/", nil)
	if e.app.pages.len() != 1 {
		t.Fatalf("pages = %d, want 1", e.app.pages.len())
	}
	_, body := e.post("/admin/logout/", nil, nil)
	mustContain(t, body, "Sign in")
	if e.app.pages.len() != 0 {
		t.Errorf("pages = %d after logout", e.app.pages.len())
	}
}

func TestTagFieldPartial(t *testing.T) {
	e := newTestEnv(t)
	e.login()

	_, body := e.post("/admin/posts/new/tags/", url.Values{
		"field":     {"tags"},
		"op":        {"key"},
		"key":       {" "},
		"tags":      {"go"},
		"tagsEntry": {"web "},
	}, hx("field-tags"))
	mustContain(t, body, `name="tags" value="go"`, `name="tags" value="web"`, `name="tagsEntry" value=""`)

	_, body = e.post("/admin/posts/new/tags/", url.Values{
		"field": {"tags"},
		"op":    {"remove"},
		"index": {"0"},
		"tags":  {"go"},
	}, hx("field-tags"))
	mustContain(t, body, "At least one tag is required")

	resp, _ := e.post("/admin/posts/new/tags/", url.Values{"field": {"title"}, "op": {"key"}}, hx("field-title"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-tag field status = %d, want 400", resp.StatusCode)
	}
}

func multipartPost(t *testing.T, e *testEnv, fields url.Values, withImage bool) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields.Set("_csrf", e.csrf())
	for k, vs := range fields {
		for _, v := range vs {
			w.WriteField(k, v)
		}
	}
	if withImage {
		fw, err := w.CreateFormFile("thumbnail", "cover.png")
		if err != nil {
			t.Fatal(err)
		}
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(1, 1, color.RGBA{R: 255, A: 255})
		if err := png.Encode(fw, img); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/admin/posts/new/", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(req)
}

func TestCreatePostValidation(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	_, body := e.get("/admin/posts/new/", nil)
	mustContain(t, body, "Create Blog")
	if strings.Contains(body, "Title is required") {
		t.Error("errors shown before submit")
	}

	resp, body := multipartPost(t, e, url.Values{"title": {"Kept title"}}, false)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	mustContain(t, body,
		`value="Kept title"`,
		"Content is required",
		"At least one tag is required",
		"Category is required",
		"Subcategory is required",
		"Thumbnail is required",
		"At least one meta tag is required",
		"meta description is required",
	)
	if strings.Contains(body, "Title is required") {
		t.Error("valid title reported as missing")
	}
}

func TestCreatePostSuccess(t *testing.T) {
	e := newTestEnv(t)
	e.login()
	e.get("/admin/posts/new/", nil)

	resp, body := multipartPost(t, e, url.Values{
		"title":           {"Hello"},
		"content":         {"<p>Body</p>"},
		"tags":            {"go", "web"},
		"category":        {"tech"},
		"subcategory":     {"web-development"},
		"metaTags":        {"go"},
		"metaDescription": {"About Go"},
	}, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Request.URL.Path != "/admin/posts/new/" {
		t.Errorf("landed on %s", resp.Request.URL.Path)
	}
	mustContain(t, body, "Blog created.", "Your blog post has been created successfully!")
}

func TestEmbeddedStylesheet(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.get("/public/admin.css", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	mustContain(t, body, ".data-table")
}

func TestLocalAPIRoute(t *testing.T) {
	a := New(SiteConfig{
		AdminEmail:    "admin@example.com",
		AdminPassword: "pw",
		SessionSecret: "secret",
		LocalAPI:      true,
		DatabasePath:  t.TempDir() + "/blogs.db",
	}, WithLogger(discardLogger()))
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer a.Close()
	if err := Seed(t.Context(), a.Store, 7); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	srv := httptest.NewServer(a.Echo)
	defer srv.Close()
	client := blogapi.NewClient(srv.URL + localAPIPath)
	res, err := client.ListBlogs(t.Context(), blogapi.Query{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("ListBlogs: %v", err)
	}
	if res.Metadata.TotalPages != 2 || len(res.Data) != 2 {
		t.Errorf("metadata = %+v rows = %d", res.Metadata, len(res.Data))
	}
}
