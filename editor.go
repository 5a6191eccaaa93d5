package pubadmin

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubadmin/form"
	"github.com/eringen/pubadmin/notify"
	"github.com/eringen/pubadmin/views"
)

const newPostPath = "/admin/posts/new/"

// formState rebuilds the create form from submitted params.
func formState(params url.Values) *form.State {
	s := form.NewState()
	s.Values = form.Values{
		Title:           params.Get(string(form.FieldTitle)),
		Content:         params.Get(string(form.FieldContent)),
		Tags:            params[string(form.FieldTags)],
		Category:        params.Get(string(form.FieldCategory)),
		Subcategory:     params.Get(string(form.FieldSubcategory)),
		MetaTags:        params[string(form.FieldMetaTags)],
		MetaDescription: params.Get(string(form.FieldMetaDescription)),
	}
	for _, f := range []form.Field{form.FieldTags, form.FieldMetaTags} {
		s.Entries[f] = params.Get(views.EntryName(f))
	}
	return s
}

func (a *App) handleNewPost(c echo.Context) error {
	return Render(c, views.NewPost(a.shell(c, "Add New Post", newPostPath), views.FormView{
		State: form.NewState(),
		CSRF:  CsrfToken(c),
	}))
}

// readThumbnail decodes the uploaded thumbnail. A missing or undecodable
// file yields nil, which fails validation.
func (a *App) readThumbnail(c echo.Context) *form.Thumbnail {
	fh, err := c.FormFile(string(form.FieldThumbnail))
	if err != nil {
		return nil
	}
	if fh.Size > form.MaxThumbnailSize {
		a.Logger.WarnContext(c.Request().Context(), "thumbnail too large", "name", fh.Filename, "size", fh.Size)
		return nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil
	}
	defer f.Close()
	thumb, err := form.ReadThumbnail(f, fh.Filename)
	if err != nil {
		a.Logger.WarnContext(c.Request().Context(), "thumbnail rejected", "name", fh.Filename, "err", err)
		return nil
	}
	return thumb
}

func (a *App) handleCreatePost(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	s := formState(params)
	s.Values.Thumbnail = a.readThumbnail(c)
	s.TouchAll()

	rec := &notify.Recorder{}
	submit := form.Submitter{Logger: a.Logger, Notifier: rec}
	if err := submit.Submit(c.Request().Context(), s.Values); err != nil {
		var errs form.Errors
		if !errors.As(err, &errs) {
			return err
		}
		return RenderStatus(c, http.StatusUnprocessableEntity, views.NewPost(
			a.shell(c, "Add New Post", newPostPath),
			views.FormView{State: s, Errors: s.VisibleErrors(), CSRF: CsrfToken(c)},
		))
	}
	if err := addFlash(c, rec.Drain()...); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, newPostPath)
}

// handleTagField applies a key press or chip removal to one tag field and
// returns the re-rendered field.
func (a *App) handleTagField(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	f := form.Field(params.Get("field"))
	if !form.IsTagField(f) {
		return echo.NewHTTPError(http.StatusBadRequest, "not a tag field")
	}
	s := formState(params)
	switch params.Get("op") {
	case "key":
		s.PressKey(f, params.Get("key"))
	case "remove":
		i, err := strconv.Atoi(params.Get("index"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid index")
		}
		s.RemoveTag(f, i)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown operation")
	}
	return Render(c, views.TagField(views.FormView{State: s, Errors: s.VisibleErrors(), CSRF: CsrfToken(c)}, f))
}
