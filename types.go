package pubadmin

import (
	"time"

	"github.com/eringen/pubadmin/table"
)

// Blog is a post as stored by the local listing API.
type Blog struct {
	ID              string
	Title           string
	Content         string
	Status          string // draft or published
	Active          bool
	AuthorFirstName string
	AuthorLastName  string
	Thumbnail       string
	Category        string
	Subcategory     string
	Tags            []string
	MetaTags        []string
	MetaDescription string
	CreatedAt       time.Time
}

// Row is the blog in the listing API's wire shape.
func (b Blog) Row() table.Row {
	return table.Row{
		"_id":      b.ID,
		"title":    b.Title,
		"content":  b.Content,
		"status":   b.Status,
		"isActive": b.Active,
		"author": map[string]any{
			"firstName": b.AuthorFirstName,
			"lastName":  b.AuthorLastName,
		},
		"thumbnail":       b.Thumbnail,
		"category":        b.Category,
		"subcategory":     b.Subcategory,
		"tags":            b.Tags,
		"metaTags":        b.MetaTags,
		"metaDescription": b.MetaDescription,
		"createdAt":       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
