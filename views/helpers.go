package views

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// esc escapes s for HTML text and attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "tag inline-flex items-center rounded border px-2.5 py-1 text-[11px] font-semibold uppercase tracking-[0.12em]"
	if active {
		base += " tag-active"
	}
	return base
}

// tocIndent is the left margin of a TOC entry.
func tocIndent(level int) string {
	return fmt.Sprintf("margin-left: %dpx", level*3)
}

// buffered renders into a buffer first so a failing child never leaves a
// half-written page behind.
func buffered(fn func(ctx context.Context, buf *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := fn(ctx, &buf); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeTags(buf *bytes.Buffer, tags []string, active string) {
	if len(tags) == 0 {
		return
	}
	buf.WriteString(`<ul class="tags">`)
	for _, t := range tags {
		href := esc("/?tag=" + url.QueryEscape(t))
		fmt.Fprintf(buf, `<li><a class="%s" href="%s" hx-get="%s&amp;partial=home" hx-target="#posts" hx-push-url="%s">%s</a></li>`,
			TagClass(strings.EqualFold(t, active)), href, href, href, esc(t))
	}
	buf.WriteString(`</ul>`)
}
