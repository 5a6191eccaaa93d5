// Package form implements the blog-post create form: field values,
// validation, tag entry and the submit boundary.
package form

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/pubadmin/notify"
)

// Field names a form field. Values match the HTML input names.
type Field string

const (
	FieldTitle           Field = "title"
	FieldContent         Field = "content"
	FieldTags            Field = "tags"
	FieldCategory        Field = "category"
	FieldSubcategory     Field = "subcategory"
	FieldThumbnail       Field = "thumbnail"
	FieldMetaTags        Field = "metaTags"
	FieldMetaDescription Field = "metaDescription"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldTitle, FieldContent, FieldTags, FieldCategory,
	FieldSubcategory, FieldThumbnail, FieldMetaTags, FieldMetaDescription,
}

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Categories are the selectable categories.
var Categories = []Option{
	{Value: "tech", Label: "Tech"},
	{Value: "lifestyle", Label: "Lifestyle"},
	{Value: "education", Label: "Education"},
}

// Subcategories are the selectable subcategories.
var Subcategories = []Option{
	{Value: "web-development", Label: "Web Development"},
	{Value: "app-development", Label: "App Development"},
	{Value: "personal-development", Label: "Personal Development"},
}

// Values holds everything the user entered.
type Values struct {
	Title           string
	Content         string
	Tags            []string
	Category        string
	Subcategory     string
	Thumbnail       *Thumbnail
	MetaTags        []string
	MetaDescription string
}

// Errors maps a field to its message. A nil or empty Errors means valid.
type Errors map[Field]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for f := range e {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[Field(k)]
	}
	return "form: invalid " + strings.Join(parts, "; ")
}

func hasOption(opts []Option, v string) bool {
	return slices.ContainsFunc(opts, func(o Option) bool { return o.Value == v })
}

// bodyText strips editor markup so an empty editor ("<p><br></p>") counts
// as no content.
var bodyText = bluemonday.StrictPolicy()

// Validate checks every rule and returns nil when v is valid.
func Validate(v Values) Errors {
	errs := Errors{}
	if strings.TrimSpace(v.Title) == "" {
		errs[FieldTitle] = "Title is required"
	}
	if strings.TrimSpace(bodyText.Sanitize(v.Content)) == "" {
		errs[FieldContent] = "Content is required"
	}
	if len(v.Tags) < 1 {
		errs[FieldTags] = "At least one tag is required"
	}
	if !hasOption(Categories, v.Category) {
		errs[FieldCategory] = "Category is required"
	}
	if !hasOption(Subcategories, v.Subcategory) {
		errs[FieldSubcategory] = "Subcategory is required"
	}
	if v.Thumbnail == nil {
		errs[FieldThumbnail] = "Thumbnail is required"
	}
	if len(v.MetaTags) < 1 {
		errs[FieldMetaTags] = "At least one meta tag is required"
	}
	if strings.TrimSpace(v.MetaDescription) == "" {
		errs[FieldMetaDescription] = "meta description is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// State is the form as rendered: values, which fields were touched, and
// the pending text of each tag entry box.
type State struct {
	Values  Values
	Touched map[Field]bool
	Entries map[Field]string
}

// NewState returns the form's initial state.
func NewState() *State {
	return &State{
		Touched: map[Field]bool{},
		Entries: map[Field]string{},
	}
}

// Touch marks fields as touched.
func (s *State) Touch(fields ...Field) {
	for _, f := range fields {
		s.Touched[f] = true
	}
}

// TouchAll marks every field, as a submit attempt does.
func (s *State) TouchAll() { s.Touch(Fields...) }

// VisibleErrors returns validation errors for touched fields only.
func (s *State) VisibleErrors() Errors {
	out := Errors{}
	for f, msg := range Validate(s.Values) {
		if s.Touched[f] {
			out[f] = msg
		}
	}
	return out
}

// Tags returns the tag list backing a tag field.
func (s *State) Tags(f Field) []string {
	switch f {
	case FieldTags:
		return s.Values.Tags
	case FieldMetaTags:
		return s.Values.MetaTags
	}
	return nil
}

func (s *State) setTags(f Field, tags []string) {
	switch f {
	case FieldTags:
		s.Values.Tags = tags
	case FieldMetaTags:
		s.Values.MetaTags = tags
	}
}

// IsTagField reports whether f uses tag entry mechanics.
func IsTagField(f Field) bool {
	return f == FieldTags || f == FieldMetaTags
}

// PressKey applies a key press in the entry box of tag field f.
func (s *State) PressKey(f Field, key string) bool {
	if !IsTagField(f) {
		return false
	}
	entry, tags, added := PressKey(key, s.Entries[f], s.Tags(f))
	s.Entries[f] = entry
	s.setTags(f, tags)
	if added {
		s.Touch(f)
	}
	return added
}

// RemoveTag closes the chip at index in tag field f.
func (s *State) RemoveTag(f Field, index int) {
	if !IsTagField(f) {
		return
	}
	s.setTags(f, RemoveTag(s.Tags(f), index))
	s.Touch(f)
}

// PressKey applies a key press to a tag entry box holding entry. Space
// with non-blank text appends the trimmed text as one tag and clears
// the box; any other key, or blank text, changes nothing.
func PressKey(key, entry string, tags []string) (string, []string, bool) {
	if key != " " {
		return entry, tags, false
	}
	tag := strings.TrimSpace(entry)
	if tag == "" {
		return entry, tags, false
	}
	out := make([]string, len(tags), len(tags)+1)
	copy(out, tags)
	return "", append(out, tag), true
}

// RemoveTag returns tags without the element at index. Out-of-range
// indexes leave the list unchanged.
func RemoveTag(tags []string, index int) []string {
	if index < 0 || index >= len(tags) {
		return tags
	}
	return slices.Delete(slices.Clone(tags), index, index+1)
}

// Submitter is the submit boundary. It validates, logs and notifies;
// it does not persist the post anywhere.
type Submitter struct {
	Logger   *slog.Logger
	Notifier notify.Notifier
}

// Submit validates v and, when valid, reports success to the user. An
// invalid form yields Errors.
func (s Submitter) Submit(ctx context.Context, v Values) error {
	if errs := Validate(v); errs != nil {
		return errs
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"title", v.Title,
		"category", v.Category,
		"subcategory", v.Subcategory,
		"tags", v.Tags,
		"metaTags", v.MetaTags,
		"metaDescription", v.MetaDescription,
		"contentBytes", len(v.Content),
	}
	if v.Thumbnail != nil {
		attrs = append(attrs, "thumbnail", fmt.Sprintf("%s %dx%d", v.Thumbnail.Filename, v.Thumbnail.Width, v.Thumbnail.Height))
	}
	logger.InfoContext(ctx, "blog data submitted", attrs...)
	if s.Notifier != nil {
		s.Notifier.Notify(notify.Success, "Blog created.", "Your blog post has been created successfully!")
	}
	return nil
}
