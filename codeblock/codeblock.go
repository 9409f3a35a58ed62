// Package codeblock renders markdown code nodes, highlighting fenced blocks
// that name a language and leaving everything else as plain code.
package codeblock

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Chroma style names for the two themes.
const (
	LightStyle = "github"
	DarkStyle  = "onedark"
)

var reLanguage = regexp.MustCompile(`language-(\w+)`)

var formatter = chromahtml.New(
	chromahtml.WithClasses(false),
	chromahtml.TabWidth(4),
)

// Node is a code node as the markdown parser hands it over.
type Node struct {
	Class  string // e.g. "language-go"; empty when the fence has no info string
	Inline bool
	Code   string
}

// Block is the rendering decision for a Node.
type Block struct {
	Highlighted bool
	Language    string
	Code        string
}

// LanguageFromClass extracts the language from a "language-<name>" class.
func LanguageFromClass(class string) string {
	m := reLanguage.FindStringSubmatch(class)
	if m == nil {
		return ""
	}
	return m[1]
}

// Plan decides how n is rendered. Only block nodes with a language are
// highlighted. The trailing newline is always dropped.
func Plan(n Node) Block {
	code := strings.TrimSuffix(n.Code, "\n")
	lang := LanguageFromClass(n.Class)
	if n.Inline || lang == "" {
		return Block{Code: code}
	}
	return Block{Highlighted: true, Language: lang, Code: code}
}

// Style returns the chroma style for the light or dark theme.
func Style(dark bool) *chroma.Style {
	if dark {
		return styles.Get(DarkStyle)
	}
	return styles.Get(LightStyle)
}

// Render writes n as HTML to w using the theme selected by dark.
func Render(w io.Writer, n Node, dark bool) error {
	b := Plan(n)
	if !b.Highlighted {
		_, err := io.WriteString(w, `<code class="code-inline">`+html.EscapeString(b.Code)+`</code>`)
		return err
	}
	return highlight(w, b, dark)
}

func highlight(w io.Writer, b Block, dark bool) error {
	lexer := lexers.Get(b.Language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, b.Code)
	if err != nil {
		return fmt.Errorf("codeblock: tokenise %s: %w", b.Language, err)
	}
	lang := html.EscapeString(b.Language)
	if _, err := io.WriteString(w, `<div class="code-block" data-lang="`+lang+`">`); err != nil {
		return err
	}
	if err := formatter.Format(w, Style(dark), it); err != nil {
		return fmt.Errorf("codeblock: format %s: %w", b.Language, err)
	}
	_, err = io.WriteString(w, `</div>`)
	return err
}
