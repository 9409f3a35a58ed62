package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
)

// shell is what every full page shares.
type shell struct {
	cfg    postline.SiteConfig
	meta   postline.PageMeta
	dark   bool
	csrf   string
	jsonLD string
}

func layout(s shell, body templ.Component) templ.Component {
	return buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\"")
		if s.dark {
			buf.WriteString(` class="dark"`)
		}
		buf.WriteString(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(buf, `<title>%s</title>`, esc(s.meta.Title))
		if s.meta.Description != "" {
			fmt.Fprintf(buf, `<meta name="description" content="%s">`, esc(s.meta.Description))
		}
		if s.meta.URL != "" {
			fmt.Fprintf(buf, `<link rel="canonical" href="%s"><meta property="og:url" content="%s">`, esc(s.meta.URL), esc(s.meta.URL))
		}
		fmt.Fprintf(buf, `<meta property="og:title" content="%s"><meta property="og:type" content="%s">`, esc(s.meta.Title), esc(s.meta.OGType))
		fmt.Fprintf(buf, `<meta name="csrf-token" content="%s">`, esc(s.csrf))
		fmt.Fprintf(buf, `<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml">`, esc(s.cfg.Name))
		buf.WriteString(`<link rel="stylesheet" href="/public/styles.css">`)
		buf.WriteString(`<script src="/public/htmx.min.js" defer></script><script src="/public/toc.js" defer></script>`)
		if s.jsonLD != "" {
			// JSON from encoding/json escapes <, > and &.
			fmt.Fprintf(buf, `<script type="application/ld+json">%s</script>`, s.jsonLD)
		}
		fmt.Fprintf(buf, `</head><body hx-headers='{"X-CSRF-Token": "%s"}'>`, esc(s.csrf))

		fmt.Fprintf(buf, `<header class="site-header"><a class="site-name" href="/">%s</a>`, esc(s.cfg.Name))
		label := "Dark"
		if s.dark {
			label = "Light"
		}
		fmt.Fprintf(buf, `<form class="theme-toggle" method="post" action="/theme/" hx-post="/theme/"><input type="hidden" name="_csrf" value="%s"><button type="submit">%s</button></form></header>`,
			esc(s.csrf), label)

		buf.WriteString(`<div id="post-skeleton" class="htmx-indicator">`)
		if err := PostSkeleton().Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</div><main id="content">`)
		if err := body.Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</main>`)
		buf.WriteString(`<footer class="site-footer"><a href="/feed.xml">RSS</a>`)
		if s.cfg.Author != "" {
			fmt.Fprintf(buf, ` <span>%s</span>`, esc(s.cfg.Author))
		}
		buf.WriteString(`</footer></body></html>`)
		return nil
	})
}

// PostSkeleton is the placeholder shown while a post partial loads: a header
// block followed by a few body lines.
func PostSkeleton() templ.Component {
	return buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<section class="skeleton" aria-busy="true">`)
		buf.WriteString(`<div class="skeleton-header"><div class="skeleton-line skeleton-title"></div><div class="skeleton-line skeleton-meta"></div></div>`)
		buf.WriteString(`<div class="skeleton-body">`)
		for i := 0; i < 6; i++ {
			buf.WriteString(`<div class="skeleton-line"></div>`)
		}
		buf.WriteString(`</div></section>`)
		return nil
	})
}
