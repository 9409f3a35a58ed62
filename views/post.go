package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
	"github.com/eringen/postline/toc"
)

// Post renders the full post page.
func Post(cfg postline.SiteConfig) func(page postline.PostPage) templ.Component {
	return func(page postline.PostPage) templ.Component {
		s := shell{
			cfg: cfg,
			meta: postline.PageMeta{
				Title:       page.Post.Title + " - " + cfg.Name,
				Description: page.Post.Summary,
				URL:         postline.PostURL(cfg.URL, page.Post.Slug),
				OGType:      "article",
			},
			dark:   page.Dark,
			csrf:   page.CSRF,
			jsonLD: postline.BlogPostingJsonLD(page.Post, page.Body.Headings, cfg),
		}
		return layout(s, PostPartial(page))
	}
}

// PostPartial renders the post header, TOC sidebar and body. It is swapped
// into #content when a post is opened from the listing.
func PostPartial(page postline.PostPage) templ.Component {
	return buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		p := page.Post
		buf.WriteString(`<section class="post">`)
		fmt.Fprintf(buf, `<header class="post-header"><h1 id="%s">%s</h1>`, toc.PageTitleID, esc(p.Title))
		fmt.Fprintf(buf, `<time datetime="%s">%s</time>`, esc(p.Date), esc(p.Date))
		writeTags(buf, p.Tags, "")
		buf.WriteString(`</header><div class="post-layout"><aside class="post-toc">`)
		if err := TOC(p.Slug, page.Body.Headings, page.Active).Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</aside><article class="prose">`)
		buf.WriteString(page.Body.HTML)
		buf.WriteString(`</article></div>`)

		if len(page.Related) > 0 {
			buf.WriteString(`<aside class="related"><h2 class="related-title">Related</h2><ul class="post-list">`)
			for _, r := range page.Related {
				writePostLink(buf, r)
			}
			buf.WriteString(`</ul></aside>`)
		}
		buf.WriteString(`</section>`)
		return nil
	})
}
