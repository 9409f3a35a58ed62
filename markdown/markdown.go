// Package markdown converts post markdown to HTML with goldmark. Headings get
// the same ids the table of contents uses and code is rendered by codeblock.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/eringen/postline/codeblock"
	"github.com/eringen/postline/toc"
)

var (
	light = newConverter(false)
	dark  = newConverter(true)
)

func newConverter(isDark bool) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&codeExtension{dark: isDark},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Result is a rendered post body.
type Result struct {
	HTML     string
	Headings []toc.Heading
}

// Convert renders md to HTML. dark selects the code highlighting theme. The
// returned headings are the rendered ones, with the ids they carry in the HTML.
func Convert(md string, isDark bool) (Result, error) {
	conv := light
	if isDark {
		conv = dark
	}
	src := []byte(md)
	doc := parse(conv, src)

	var buf bytes.Buffer
	if err := conv.Renderer().Render(&buf, src, doc); err != nil {
		return Result{}, fmt.Errorf("markdown: convert: %w", err)
	}
	return Result{HTML: buf.String(), Headings: collectHeadings(doc, src)}, nil
}

// Outline returns the headings a rendered post lists in its table of contents
// and the '#' lines that did not become headings, with the reason.
func Outline(md string) ([]toc.Heading, []toc.LineResult) {
	src := []byte(md)
	headings := collectHeadings(parse(light, src), src)
	var skipped []toc.LineResult
	for _, res := range toc.ParseLines(md) {
		if !res.Parsed() {
			skipped = append(skipped, res)
		}
	}
	return headings, skipped
}

func parse(conv goldmark.Markdown, src []byte) ast.Node {
	ctx := parser.NewContext(parser.WithIDs(&headingIDs{}))
	return conv.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
}

// collectHeadings lists every heading of doc in document order. Setext
// headings and headings nested in blockquotes or lists are included, so the
// list matches what the browser sees.
func collectHeadings(doc ast.Node, src []byte) []toc.Heading {
	var headings []toc.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		id, _ := h.AttributeString("id")
		idBytes, _ := id.([]byte)
		headings = append(headings, toc.Heading{
			ID:    string(idBytes),
			Title: toc.NormalizeTitle(headingTitle(h, src)),
			Depth: h.Level,
			Level: (h.Level - 1) * toc.IndentUnit,
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// headingTitle is the source text of a heading; multi-line setext titles are
// joined with spaces.
func headingTitle(h *ast.Heading, src []byte) string {
	lines := h.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(src))))
	}
	return strings.Join(parts, " ")
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string, isDark bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res, err := Convert(md, isDark)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, res.HTML)
		return err
	})
}

// headingIDs gives rendered headings title-based ids, numbering repeats the
// way toc.IDs does.
type headingIDs struct {
	ids toc.IDs
}

func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(h.ids.Assign(toc.NormalizeTitle(string(value))))
}

func (h *headingIDs) Put(value []byte) {
	h.ids.Assign(string(value))
}

type codeExtension struct {
	dark bool
}

func (e *codeExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&codeRenderer{dark: e.dark}, 200)),
	)
}

type codeRenderer struct {
	dark bool
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFenced)
	reg.Register(ast.KindCodeBlock, r.renderIndented)
	reg.Register(ast.KindCodeSpan, r.renderSpan)
}

func (r *codeRenderer) renderFenced(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	class := ""
	if lang := n.Language(source); len(lang) > 0 {
		class = "language-" + string(lang)
	}
	return r.renderBlock(w, codeblock.Node{Class: class, Code: blockText(n, source)})
}

func (r *codeRenderer) renderIndented(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return r.renderBlock(w, codeblock.Node{Code: blockText(node, source)})
}

func (r *codeRenderer) renderBlock(w util.BufWriter, n codeblock.Node) (ast.WalkStatus, error) {
	plain := !codeblock.Plan(n).Highlighted
	if plain {
		_, _ = w.WriteString(`<pre class="code-plain">`)
	}
	if err := codeblock.Render(w, n, r.dark); err != nil {
		return ast.WalkStop, err
	}
	if plain {
		_, _ = w.WriteString("</pre>\n")
	}
	return ast.WalkSkipChildren, nil
}

func (r *codeRenderer) renderSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	if err := codeblock.Render(w, codeblock.Node{Inline: true, Code: buf.String()}, r.dark); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func blockText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}
