package postline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPosts() []BlogPost {
	return []BlogPost{
		{Slug: "first", Title: "First", Date: "2024-01-01", Tags: []string{"Go", "web"}, Content: "# A", Published: true},
		{Slug: "second", Title: "Second", Date: "2024-02-01", Tags: []string{"go"}, Content: "# B", Published: true},
		{Slug: "draft", Title: "Draft", Date: "2024-03-01", Tags: []string{"secret"}, Content: "# C", Published: false},
	}
}

func TestReplaceAllAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceAll(context.Background(), seedPosts()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := s.GetPost("first")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "First" {
		t.Errorf("Title = %q, want %q", got.Title, "First")
	}
	if got.Content != "# A" {
		t.Errorf("Content = %q, want %q", got.Content, "# A")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", got.Tags)
	}
	if got.Link != "/blog/first" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/first")
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceAll(context.Background(), seedPosts()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	for _, slug := range []string{"missing", "draft"} {
		if _, err := s.GetPost(slug); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPost(%q) error = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestListPosts(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceAll(context.Background(), seedPosts()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Slug != "second" {
		t.Errorf("posts[0].Slug = %q, want newest first", posts[0].Slug)
	}

	web, err := s.ListPosts("WEB")
	if err != nil {
		t.Fatalf("ListPosts(tag) failed: %v", err)
	}
	if len(web) != 1 || web[0].Slug != "first" {
		t.Errorf("ListPosts(WEB) = %v, want [first]", web)
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceAll(context.Background(), seedPosts()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "web" {
		t.Errorf("ListTags = %v, want [go web]", tags)
	}
}

func TestReplaceAllDropsOldPosts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	if err := s.ReplaceAll(ctx, seedPosts()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if err := s.ReplaceAll(ctx, []BlogPost{{Slug: "only", Title: "Only", Date: "2024-04-01", Published: true}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	posts, _ := s.ListPosts("")
	if len(posts) != 1 || posts[0].Slug != "only" {
		t.Errorf("posts = %v, want [only]", posts)
	}
}

func TestSyncFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.md"), []byte("# Hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "index.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	n, err := s.Sync(context.Background(), dir)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Sync = %d, want 1", n)
	}
	if p, err := s.GetPost("hello"); err != nil || p.Title != "Hello" {
		t.Errorf("GetPost(hello) = %+v, %v", p, err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{",go,web,", 2},
		{",,", 0},
		{"", 0},
		{",single,", 1},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.in); len(got) != tt.want {
			t.Errorf("ParseTags(%q) = %v, want %d tags", tt.in, got, tt.want)
		}
	}
}
