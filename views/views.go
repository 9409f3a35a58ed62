// Package views holds the default postline templates, written as
// templ.ComponentFunc values so sites can swap any of them out.
package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
)

// Default returns the stock ViewFuncs for cfg.
func Default(cfg postline.SiteConfig) postline.ViewFuncs {
	return postline.ViewFuncs{
		Home:        Home(cfg),
		HomePartial: HomePartial,
		Post:        Post(cfg),
		PostPartial: PostPartial,
		TOC:         TOC,
		NotFound:    NotFound(cfg),
		ServerError: ServerError(cfg),
	}
}

// NotFound renders the 404 page.
func NotFound(cfg postline.SiteConfig) func() templ.Component {
	return errorPage(cfg, "Not found", "There is no post here.")
}

// ServerError renders the 500 page.
func ServerError(cfg postline.SiteConfig) func() templ.Component {
	return errorPage(cfg, "Something went wrong", "Please try again in a moment.")
}

func errorPage(cfg postline.SiteConfig, title, text string) func() templ.Component {
	return func() templ.Component {
		s := shell{
			cfg:  cfg,
			meta: postline.PageMeta{Title: title + " - " + cfg.Name, OGType: "website"},
		}
		return layout(s, buffered(func(ctx context.Context, buf *bytes.Buffer) error {
			buf.WriteString(`<section class="error"><h1 id="pageTitle">` + esc(title) + `</h1><p>` + esc(text) + `</p><a href="/">Back home</a></section>`)
			return nil
		}))
	}
}
