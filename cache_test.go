package postline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, posts []BlogPost) (*PostCache, *Store) {
	t.Helper()
	s := setupTestStore(t)
	require.NoError(t, s.ReplaceAll(context.Background(), posts))
	return NewPostCache(s, time.Minute), s
}

func TestPostCacheServesFromMemory(t *testing.T) {
	c, s := newTestCache(t, seedPosts())

	posts, err := c.ListPosts("")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	// Changes to the index stay invisible until the cache is invalidated.
	require.NoError(t, s.ReplaceAll(context.Background(), nil))
	posts, err = c.ListPosts("")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	c.Invalidate()
	posts, err = c.ListPosts("")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostCacheTagFilter(t *testing.T) {
	c, _ := newTestCache(t, seedPosts())

	posts, err := c.ListPosts(" Web ")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].Slug)

	tags, err := c.ListTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, tags)
}

func TestPostCacheGetPost(t *testing.T) {
	c, _ := newTestCache(t, seedPosts())

	p, err := c.GetPost("second")
	require.NoError(t, err)
	assert.Equal(t, "Second", p.Title)

	_, err = c.GetPost("draft")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostCacheRendered(t *testing.T) {
	post := BlogPost{Slug: "p", Title: "P", Date: "2024-01-01", Published: true,
		Content: "# Intro\ntext\n## Usage\n```go\nfmt.Println(1)\n```\n#### Deep\n"}
	c, _ := newTestCache(t, []BlogPost{post})

	light, err := c.Rendered(post, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Usage"}, light.Order)
	require.Len(t, light.Headings, 3)
	assert.Equal(t, "Deep", light.Headings[2].ID)
	assert.Contains(t, light.HTML, `class="code-block"`)

	again, err := c.Rendered(post, false)
	require.NoError(t, err)
	assert.Equal(t, light, again)

	dark, err := c.Rendered(post, true)
	require.NoError(t, err)
	assert.Equal(t, light.Order, dark.Order)
	assert.NotEqual(t, light.HTML, dark.HTML)
}
