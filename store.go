package pubadmin

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested blog does not exist.
var ErrNotFound = errors.New("pubadmin: blog not found")

// Store wraps a SQLite database holding the local API's blogs.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the API read while seed writes; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blogs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    is_active INTEGER NOT NULL DEFAULT 1,
    author_first TEXT NOT NULL DEFAULT '',
    author_last TEXT NOT NULL DEFAULT '',
    thumbnail TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    subcategory TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    meta_tags TEXT NOT NULL DEFAULT ',',
    meta_description TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS blogs_created_at ON blogs (created_at DESC);
`)
	return err
}

const blogColumns = `id, title, content, status, is_active, author_first, author_last, thumbnail, category, subcategory, tags, meta_tags, meta_description, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(row scanner) (Blog, error) {
	var b Blog
	var tags, metaTags string
	var active int
	var created int64
	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Status, &active, &b.AuthorFirstName, &b.AuthorLastName,
		&b.Thumbnail, &b.Category, &b.Subcategory, &tags, &metaTags, &b.MetaDescription, &created)
	if err != nil {
		return Blog{}, err
	}
	b.Active = active == 1
	b.Tags = ParseTags(tags)
	b.MetaTags = ParseTags(metaTags)
	b.CreatedAt = time.Unix(created, 0).UTC()
	return b, nil
}

// ListBlogs returns every blog, newest first.
func (s *Store) ListBlogs(ctx context.Context) ([]Blog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blogs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBlog returns one blog by id.
func (s *Store) GetBlog(ctx context.Context, id string) (Blog, error) {
	b, err := scanBlog(s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Blog{}, ErrNotFound
	}
	return b, err
}

// SaveBlog upserts b. A blank id gets a fresh UUID and a zero CreatedAt
// becomes now. The stored blog is returned.
func (s *Store) SaveBlog(ctx context.Context, b Blog) (Blog, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	if b.Status == "" {
		b.Status = "draft"
	}
	active := 0
	if b.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO blogs (`+blogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Content, b.Status, active, b.AuthorFirstName, b.AuthorLastName, b.Thumbnail,
		b.Category, b.Subcategory, joinTags(b.Tags), joinTags(b.MetaTags), b.MetaDescription, b.CreatedAt.Unix())
	if err != nil {
		return Blog{}, err
	}
	return b, nil
}

// DeleteBlog removes a blog by id.
func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	return err
}

// CountBlogs returns the number of stored blogs.
func (s *Store) CountBlogs(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&n)
	return n, err
}

// joinTags normalizes tags to lowercase and encodes them as ",a,b,".
func joinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
