package listing

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/eringen/pubadmin/table"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Detail is the read-only view of one blog shown in the side panel.
type Detail struct {
	Thumbnail string
	Title     string
	Author    string
	Status    string
	// ContentHTML is the remote rich-text content with unsafe markup removed.
	ContentHTML string
	// ContentText is the content with all markup stripped.
	ContentText string
}

// DetailOf builds the detail view of row.
func DetailOf(row table.Row) Detail {
	field := func(path string) string {
		return table.Cell(row, table.Column{Field: path})
	}
	var author []string
	for _, part := range []string{field("author.firstName"), field("author.lastName")} {
		if s := strings.TrimSpace(part); s != "" {
			author = append(author, s)
		}
	}
	content := field("content")
	return Detail{
		Thumbnail:   field("thumbnail"),
		Title:       field("title"),
		Author:      strings.Join(author, " "),
		Status:      field("status"),
		ContentHTML: ugcPolicy.Sanitize(content),
		ContentText: strings.TrimSpace(strictPolicy.Sanitize(content)),
	}
}
