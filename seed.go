package pubadmin

import (
	"context"
	"fmt"
	"time"

	"github.com/eringen/pubadmin/form"
)

var (
	seedTopics  = []string{"Go", "htmx", "SQLite", "Caching", "Testing", "Logging", "Concurrency", "Templates"}
	seedAngles  = []string{"Getting started with", "A deep dive into", "Notes on", "Lessons from", "Practical"}
	seedAuthors = [][2]string{{"Ada", "Lovelace"}, {"Grace", "Hopper"}, {"Alan", "Turing"}, {"Barbara", "Liskov"}, {"Ken", ""}}
)

// SampleBlogs returns n deterministic sample blogs, newest first.
func SampleBlogs(n int, now time.Time) []Blog {
	blogs := make([]Blog, n)
	for i := range blogs {
		topic := seedTopics[i%len(seedTopics)]
		angle := seedAngles[(i/len(seedTopics))%len(seedAngles)]
		author := seedAuthors[i%len(seedAuthors)]
		category := form.Categories[i%len(form.Categories)].Value
		sub := form.Subcategories[i%len(form.Subcategories)].Value
		status := "published"
		if i%3 == 0 {
			status = "draft"
		}
		title := fmt.Sprintf("%s %s", angle, topic)
		blogs[i] = Blog{
			ID:              fmt.Sprintf("%024x", i+1),
			Title:           title,
			Content:         fmt.Sprintf("<h2>%s</h2><p>Sample post %d about %s.</p>", title, i+1, topic),
			Status:          status,
			Active:          i%4 != 3,
			AuthorFirstName: author[0],
			AuthorLastName:  author[1],
			Category:        category,
			Subcategory:     sub,
			Tags:            []string{topic, category},
			MetaTags:        []string{topic},
			MetaDescription: "A sample post about " + topic + ".",
			CreatedAt:       now.Add(-time.Duration(i) * time.Hour).UTC().Truncate(time.Second),
		}
	}
	return blogs
}

// Seed writes n sample blogs into s.
func Seed(ctx context.Context, s *Store, n int) error {
	for _, b := range SampleBlogs(n, time.Now()) {
		if _, err := s.SaveBlog(ctx, b); err != nil {
			return fmt.Errorf("pubadmin: seed %s: %w", b.ID, err)
		}
	}
	return nil
}
