package form

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eringen/pubadmin/notify"
)

func validValues() Values {
	return Values{
		Title:           "Hello",
		Content:         "<p>Body</p>",
		Tags:            []string{"go"},
		Category:        "tech",
		Subcategory:     "web-development",
		Thumbnail:       &Thumbnail{Filename: "cover.jpg", Width: 10, Height: 10},
		MetaTags:        []string{"golang"},
		MetaDescription: "A post",
	}
}

func TestValidateEmptyForm(t *testing.T) {
	want := Errors{
		FieldTitle:           "Title is required",
		FieldContent:         "Content is required",
		FieldTags:            "At least one tag is required",
		FieldCategory:        "Category is required",
		FieldSubcategory:     "Subcategory is required",
		FieldThumbnail:       "Thumbnail is required",
		FieldMetaTags:        "At least one meta tag is required",
		FieldMetaDescription: "meta description is required",
	}
	if diff := cmp.Diff(want, Validate(Values{})); diff != "" {
		t.Errorf("Validate mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateValidForm(t *testing.T) {
	if errs := Validate(validValues()); errs != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidateContentIgnoresEditorMarkup(t *testing.T) {
	for _, content := range []string{"", "   ", "<p><br></p>", "<p> </p><p><br></p>"} {
		v := validValues()
		v.Content = content
		if got := Validate(v)[FieldContent]; got != "Content is required" {
			t.Errorf("Validate(content=%q)[content] = %q, want required", content, got)
		}
	}
	v := validValues()
	v.Content = "<p><strong>Body</strong></p>"
	if errs := Validate(v); errs != nil {
		t.Errorf("formatted content rejected: %v", errs)
	}
}

func TestValidateRejectsUnknownOptions(t *testing.T) {
	v := validValues()
	v.Category = "sports"
	v.Subcategory = "cooking"
	errs := Validate(v)
	if errs[FieldCategory] == "" || errs[FieldSubcategory] == "" {
		t.Errorf("unknown options accepted: %v", errs)
	}
}

func TestPressKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		entry     string
		tags      []string
		wantEntry string
		wantTags  []string
		wantAdded bool
	}{
		{"space adds trimmed tag", " ", "  golang ", nil, "", []string{"golang"}, true},
		{"appends to existing", " ", "web", []string{"go"}, "", []string{"go", "web"}, true},
		{"whitespace only", " ", "   ", []string{"go"}, "   ", []string{"go"}, false},
		{"empty entry", " ", "", nil, "", nil, false},
		{"other key", "a", "go", nil, "go", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, tags, added := PressKey(tt.key, tt.entry, tt.tags)
			if entry != tt.wantEntry || added != tt.wantAdded {
				t.Errorf("entry=%q added=%v, want %q %v", entry, added, tt.wantEntry, tt.wantAdded)
			}
			if diff := cmp.Diff(tt.wantTags, tags); diff != "" {
				t.Errorf("tags (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPressKeyDoesNotAliasInput(t *testing.T) {
	base := make([]string, 1, 4)
	base[0] = "a"
	_, first, _ := PressKey(" ", "b", base)
	_, second, _ := PressKey(" ", "c", base)
	if first[1] != "b" || second[1] != "c" {
		t.Errorf("results share storage: %v %v", first, second)
	}
}

func TestRemoveTag(t *testing.T) {
	tags := []string{"a", "b", "c"}
	if diff := cmp.Diff([]string{"a", "c"}, RemoveTag(tags, 1)); diff != "" {
		t.Errorf("RemoveTag (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, tags); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
	if got := RemoveTag(tags, 7); len(got) != 3 {
		t.Errorf("out-of-range remove changed list: %v", got)
	}
}

func TestStateTagFlow(t *testing.T) {
	s := NewState()
	s.Entries[FieldMetaTags] = "seo"
	if !s.PressKey(FieldMetaTags, " ") {
		t.Fatal("expected a tag to be added")
	}
	if s.Entries[FieldMetaTags] != "" {
		t.Errorf("entry not cleared: %q", s.Entries[FieldMetaTags])
	}
	if diff := cmp.Diff([]string{"seo"}, s.Values.MetaTags); diff != "" {
		t.Errorf("meta tags (-want +got):\n%s", diff)
	}
	s.RemoveTag(FieldMetaTags, 0)
	errs := s.VisibleErrors()
	if errs[FieldMetaTags] != "At least one meta tag is required" {
		t.Errorf("touched empty meta tags should show an error, got %v", errs)
	}
	if _, shown := errs[FieldTitle]; shown {
		t.Error("untouched title error should be hidden")
	}
	if s.PressKey(FieldTitle, " ") {
		t.Error("title is not a tag field")
	}
}

func TestStateTouchAllShowsEverything(t *testing.T) {
	s := NewState()
	s.TouchAll()
	if got := len(s.VisibleErrors()); got != len(Fields) {
		t.Errorf("visible errors = %d, want %d", got, len(Fields))
	}
}

func TestSubmitNotifiesOnSuccess(t *testing.T) {
	rec := &notify.Recorder{}
	sub := Submitter{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Notifier: rec}
	if err := sub.Submit(context.Background(), validValues()); err != nil {
		t.Fatal(err)
	}
	want := []notify.Toast{{Kind: notify.Success, Title: "Blog created.", Message: "Your blog post has been created successfully!"}}
	if diff := cmp.Diff(want, rec.Drain()); diff != "" {
		t.Errorf("toasts (-want +got):\n%s", diff)
	}
}

func TestSubmitBlocksInvalidForm(t *testing.T) {
	rec := &notify.Recorder{}
	sub := Submitter{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Notifier: rec}
	v := validValues()
	v.Tags = nil
	err := sub.Submit(context.Background(), v)
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	if errs[FieldTags] == "" {
		t.Errorf("errors = %v", errs)
	}
	if len(rec.Toasts()) != 0 {
		t.Error("invalid submit raised a toast")
	}
}
