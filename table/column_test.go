package table

import "testing"

func TestResolveDottedPath(t *testing.T) {
	row := Row{
		"_id":    "abc",
		"author": map[string]any{"firstName": "Ada", "profile": map[string]any{"city": "London"}},
		"count":  float64(3),
		"ratio":  0.25,
		"active": true,
		"tags":   []any{"go", "web"},
		"nil":    nil,
		"meta-description": "desc",
	}
	tests := []struct {
		field string
		want  string
	}{
		{"_id", "abc"},
		{"author.firstName", "Ada"},
		{"author.profile.city", "London"},
		{"author.lastName", ""},
		{"author.firstName.more", ""},
		{"missing.deeper", ""},
		{"count", "3"},
		{"ratio", "0.25"},
		{"active", "true"},
		{"tags", `["go","web"]`},
		{"nil", ""},
		{"meta-description", "desc"},
		{"bad..path", ""},
	}
	for _, tt := range tests {
		if got := Cell(row, Column{Field: tt.field}); got != tt.want {
			t.Errorf("Cell(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestResolveNilRow(t *testing.T) {
	if _, ok := Resolve(nil, "title"); ok {
		t.Error("nil row should resolve to absent")
	}
}
