package postline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/eringen/postline/markdown"
	"github.com/eringen/postline/toc"
)

// PostCache is an in-memory cache of published blog posts and tags with TTL.
// It also memoizes rendered post bodies per theme.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	tags    []string
	fetched time.Time
	ttl     time.Duration
	store   *Store

	renderMu sync.Mutex
	rendered map[renderKey]RenderedPost
}

type renderKey struct {
	slug string
	dark bool
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl, rendered: make(map[renderKey]RenderedPost)}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()

	c.renderMu.Lock()
	c.rendered = make(map[renderKey]RenderedPost)
	c.renderMu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	c.posts = posts
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]BlogPost, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []BlogPost
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(slug string) (BlogPost, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// Rendered returns the HTML body, TOC headings and tracked heading order of
// a post for the given theme.
func (c *PostCache) Rendered(post BlogPost, dark bool) (RenderedPost, error) {
	key := renderKey{slug: post.Slug, dark: dark}
	c.renderMu.Lock()
	r, ok := c.rendered[key]
	c.renderMu.Unlock()
	if ok {
		return r, nil
	}

	res, err := markdown.Convert(post.Content, dark)
	if err != nil {
		return RenderedPost{}, fmt.Errorf("postline: render %s: %w", post.Slug, err)
	}
	order, err := toc.LocateHeadings(res.HTML)
	if err != nil {
		return RenderedPost{}, err
	}
	r = RenderedPost{HTML: res.HTML, Headings: res.Headings, Order: order}

	c.renderMu.Lock()
	c.rendered[key] = r
	c.renderMu.Unlock()
	return r, nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
