package views

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/postline"
	"github.com/eringen/postline/toc"
)

// ActiveClass marks the TOC entry of the heading the reader is on.
const ActiveClass = "toc-active"

// TOC renders the table of contents of a post. Entries are indented by
// heading level and the entry whose id is active carries ActiveClass.
// toc.js reads data-endpoint to report heading visibility.
func TOC(slug string, headings []toc.Heading, active string) templ.Component {
	return buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		if len(headings) == 0 {
			return nil
		}
		fmt.Fprintf(buf, `<nav class="toc" aria-label="Table of contents"><ul data-toc data-endpoint="/blog/%s/visibility/">`, esc(postline.PathEscape(slug)))
		for _, h := range headings {
			class := "toc-entry"
			if h.Depth == 1 {
				class += " font-bold"
			}
			if h.ID == active {
				class += " " + ActiveClass
			}
			fmt.Fprintf(buf, `<li id="toc-%s" class="%s" style="%s" data-toc-entry data-target="%s">%s</li>`,
				esc(h.ID), class, tocIndent(h.Level), esc(h.ID), esc(h.Title))
		}
		buf.WriteString(`</ul></nav>`)
		return nil
	})
}
