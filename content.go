package postline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/postline/markdown"
)

// frontMatter is the optional YAML header of a post file.
type frontMatter struct {
	Title     string   `yaml:"title"`
	Date      string   `yaml:"date"`
	Tags      []string `yaml:"tags"`
	Summary   string   `yaml:"summary"`
	Published *bool    `yaml:"published"`
}

var fmDelim = []byte("---")

// LoadPosts reads every *.md file in dir. The slug is the slugified file name
// without extension. Files that fail to parse, or whose slug is empty or taken
// by another file, abort the load.
func LoadPosts(dir string) ([]BlogPost, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("postline: read content dir: %w", err)
	}
	var posts []BlogPost
	files := make(map[string]string) // slug -> file name
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("postline: read %s: %w", path, err)
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("postline: stat %s: %w", path, err)
		}
		slug := Slugify(strings.TrimSuffix(e.Name(), ".md"))
		if slug == "" {
			return nil, fmt.Errorf("postline: %s: file name has no letters or digits to build a slug from", path)
		}
		if other, dup := files[slug]; dup {
			return nil, fmt.Errorf("postline: %s and %s share the slug %q", other, e.Name(), slug)
		}
		files[slug] = e.Name()
		p, err := ParsePost(slug, raw, info.ModTime())
		if err != nil {
			return nil, fmt.Errorf("postline: parse %s: %w", path, err)
		}
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date > posts[j].Date })
	return posts, nil
}

// ParsePost builds a BlogPost from file contents. Missing front matter fields
// fall back to the first heading, modTime and published=true.
func ParsePost(slug string, raw []byte, modTime time.Time) (BlogPost, error) {
	var fm frontMatter
	body := raw
	if bytes.HasPrefix(raw, fmDelim) {
		rest := raw[len(fmDelim):]
		end := bytes.Index(rest, append([]byte("\n"), fmDelim...))
		if end < 0 {
			return BlogPost{}, fmt.Errorf("unterminated front matter")
		}
		if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
			return BlogPost{}, fmt.Errorf("front matter: %w", err)
		}
		body = rest[end+1+len(fmDelim):]
		body = bytes.TrimLeft(body, "\r\n")
	}

	content := string(body)
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		if hs, _ := markdown.Outline(content); len(hs) > 0 {
			title = hs[0].Title
		} else {
			title = slug
		}
	}
	date := strings.TrimSpace(fm.Date)
	if date == "" {
		date = modTime.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return BlogPost{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
	}
	published := true
	if fm.Published != nil {
		published = *fm.Published
	}
	return BlogPost{
		Title:     title,
		Date:      date,
		Tags:      FilterEmpty(fm.Tags),
		Summary:   strings.TrimSpace(fm.Summary),
		Link:      PostPath(slug),
		Slug:      slug,
		Content:   content,
		Published: published,
	}, nil
}
