package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
)

// Home renders the full listing page.
func Home(cfg postline.SiteConfig) func(page postline.HomePage) templ.Component {
	return func(page postline.HomePage) templ.Component {
		title := cfg.Name
		if page.ActiveTag != "" {
			title = "#" + page.ActiveTag + " - " + cfg.Name
		}
		s := shell{
			cfg: cfg,
			meta: postline.PageMeta{
				Title:       title,
				Description: cfg.Description,
				URL:         postline.BuildURL(cfg.URL),
				OGType:      "website",
			},
			dark:   page.Dark,
			csrf:   page.CSRF,
			jsonLD: postline.WebsiteJsonLD(cfg),
		}
		return layout(s, buffered(func(ctx context.Context, buf *bytes.Buffer) error {
			writeTags(buf, page.Tags, page.ActiveTag)
			buf.WriteString(`<section id="posts">`)
			if err := HomePartial(page).Render(ctx, buf); err != nil {
				return err
			}
			buf.WriteString(`</section>`)
			return nil
		}))
	}
}

// HomePartial renders the post list alone, for tag filtering over htmx.
func HomePartial(page postline.HomePage) templ.Component {
	return buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		if len(page.Posts) == 0 {
			buf.WriteString(`<p class="empty">No posts yet.</p>`)
			return nil
		}
		buf.WriteString(`<ul class="post-list">`)
		for _, p := range page.Posts {
			writePostLink(buf, p)
		}
		buf.WriteString(`</ul>`)
		return nil
	})
}

func writePostLink(buf *bytes.Buffer, p postline.BlogPost) {
	href := esc(postline.PostPath(p.Slug) + "/")
	fmt.Fprintf(buf, `<li class="post-item"><a href="%s" hx-get="%s?partial=post" hx-target="#content" hx-push-url="%s" hx-indicator="#post-skeleton">%s</a>`,
		href, href, href, esc(p.Title))
	fmt.Fprintf(buf, ` <time datetime="%s">%s</time>`, esc(p.Date), esc(p.Date))
	if p.Summary != "" {
		fmt.Fprintf(buf, `<p class="summary">%s</p>`, esc(p.Summary))
	}
	buf.WriteString(`</li>`)
}
