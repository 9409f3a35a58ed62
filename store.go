package postline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("postline: not found")

// Store is a SQLite index over the posts loaded from the content directory.
// It is rebuilt from disk on every start; the markdown files stay the source of truth.
type Store struct {
	db *sql.DB
}

// NewStore opens the index at path. ":memory:" keeps it in process memory.
func NewStore(path string) (*Store, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("postline: index dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("postline: open index: %w", err)
	}
	if memory {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
		`); err != nil {
			db.Close()
			return nil, fmt.Errorf("postline: pragmas: %w", err)
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postline: schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
`)
	return err
}

// ReplaceAll swaps the indexed posts for posts in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, posts []BlogPost) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO posts (slug, title, date, tags, summary, content, published) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		published := 0
		if p.Published {
			published = 1
		}
		if _, err := stmt.ExecContext(ctx, p.Slug, p.Title, p.Date, tagString(p.Tags), p.Summary, p.Content, published); err != nil {
			return fmt.Errorf("index %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// Sync reloads the index from the markdown files in dir and returns the
// number of indexed posts.
func (s *Store) Sync(ctx context.Context, dir string) (int, error) {
	posts, err := LoadPosts(dir)
	if err != nil {
		return 0, err
	}
	if err := s.ReplaceAll(ctx, posts); err != nil {
		return 0, fmt.Errorf("postline: index posts: %w", err)
	}
	return len(posts), nil
}

// ListPosts returns all published posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT slug, title, date, tags, summary, content, published FROM posts WHERE published = 1 ORDER BY date DESC, slug`)
	} else {
		rows, err = s.db.Query(`SELECT slug, title, date, tags, summary, content, published FROM posts WHERE published = 1 AND instr(tags, ',' || ? || ',') > 0 ORDER BY date DESC, slug`, normalizeTag(tag))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		var p BlogPost
		var tags string
		var published int
		if err := rows.Scan(&p.Slug, &p.Title, &p.Date, &tags, &p.Summary, &p.Content, &published); err != nil {
			return nil, err
		}
		p.Tags = ParseTags(tags)
		p.Link = PostPath(p.Slug)
		p.Published = published == 1
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(slug string) (BlogPost, error) {
	p := BlogPost{Slug: slug, Link: PostPath(slug)}
	var tags string
	var published int
	err := s.db.QueryRow(`SELECT title, date, tags, summary, content, published FROM posts WHERE slug = ? AND published = 1`, slug).
		Scan(&p.Title, &p.Date, &tags, &p.Summary, &p.Content, &published)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, err
	}
	p.Tags = ParseTags(tags)
	p.Published = published == 1
	return p, nil
}

// tagString stores tags as ",go,web," so a tag can be matched with instr.
func tagString(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" {
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
