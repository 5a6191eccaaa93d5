package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var blogColumns = []Column{
	{Label: "ID", Field: "_id", Width: "200px"},
	{Label: "Title", Field: "title", Width: "200px"},
	{Label: "Author", Field: "author.firstName"},
	{Label: "Status", Field: "status"},
	{Label: "Active", Field: "isActive", Width: "80px"},
}

func TestRenderLoadingWinsOverRows(t *testing.T) {
	rows := []Row{{"_id": "1"}, {"_id": "2"}}
	for _, rs := range [][]Row{nil, rows} {
		body := RenderRows(blogColumns, rs, true, Handlers{})
		if body.State != BodyLoading {
			t.Errorf("rows=%d: state = %v, want loading", len(rs), body.State)
		}
		if len(body.Rows) != 0 {
			t.Errorf("loading body should carry no rows")
		}
		if body.ColSpan != len(blogColumns) {
			t.Errorf("ColSpan = %d, want %d", body.ColSpan, len(blogColumns))
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	body := RenderRows(blogColumns, nil, false, Handlers{View: func(Row) {}})
	if body.State != BodyEmpty {
		t.Fatalf("state = %v, want empty", body.State)
	}
	if body.Message != "No data found." {
		t.Errorf("Message = %q", body.Message)
	}
	if body.ColSpan != len(blogColumns)+1 {
		t.Errorf("ColSpan should include the actions column, got %d", body.ColSpan)
	}
}

func TestRenderScenarioRow(t *testing.T) {
	rows := []Row{{"_id": "1", "title": "Hello", "status": "draft"}}
	body := RenderRows(blogColumns, rows, false, Handlers{})
	want := Body{
		State: BodyData,
		Headers: []Header{
			{Label: "ID", Width: "200px"},
			{Label: "Title", Width: "200px"},
			{Label: "Author", Width: "auto"},
			{Label: "Status", Width: "auto"},
			{Label: "Active", Width: "80px"},
		},
		Rows:    []RenderedRow{{Index: 0, Cells: []string{"1", "Hello", "", "draft", ""}}},
		ColSpan: 5,
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("RenderRows mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderActionsAreIndependent(t *testing.T) {
	noop := func(Row) {}
	tests := []struct {
		name     string
		handlers Handlers
		want     []Action
	}{
		{"none", Handlers{}, nil},
		{"view only", Handlers{View: noop}, []Action{ActionView}},
		{"edit and delete", Handlers{Edit: noop, Delete: noop}, []Action{ActionEdit, ActionDelete}},
		{"all", Handlers{View: noop, Edit: noop, Delete: noop}, []Action{ActionView, ActionEdit, ActionDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := RenderRows(blogColumns, []Row{{"_id": "1"}}, false, tt.handlers)
			if diff := cmp.Diff(tt.want, body.Rows[0].Actions); diff != "" {
				t.Errorf("actions (-want +got):\n%s", diff)
			}
			hasHeader := body.Headers[len(body.Headers)-1].Label == "Actions"
			if hasHeader != (len(tt.want) > 0) {
				t.Errorf("Actions header present = %v with %d actions", hasHeader, len(tt.want))
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{ActionView, ActionEdit, ActionDelete} {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if _, ok := ParseAction("archive"); ok {
		t.Error("unknown action accepted")
	}
}
