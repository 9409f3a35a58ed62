package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eringen/postline/toc"
)

func TestConvertHeadingIDsMatchTOC(t *testing.T) {
	md := "# Intro\n\ntext\n\n## `code` heading\n\n## Notes\n\n## Notes"
	res, err := Convert(md, false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	ids, err := toc.LocateHeadings(res.HTML)
	if err != nil {
		t.Fatalf("LocateHeadings failed: %v", err)
	}
	if len(ids) != len(res.Headings) {
		t.Fatalf("rendered ids %v, headings %v", ids, res.Headings)
	}
	for i, h := range res.Headings {
		if ids[i] != h.ID {
			t.Errorf("heading %d: rendered id %q, toc id %q", i, ids[i], h.ID)
		}
	}
	if res.Headings[3].ID != "Notes-2" {
		t.Errorf("duplicate heading id = %q, want %q", res.Headings[3].ID, "Notes-2")
	}
}

func TestConvertHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="Heading 1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="Heading 2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="Heading 3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		res, err := Convert(tt.input, false)
		if err != nil {
			t.Fatalf("Convert(%q) failed: %v", tt.input, err)
		}
		if !strings.Contains(res.HTML, tt.expected) {
			t.Errorf("Convert(%q) = %q, want it to contain %q", tt.input, res.HTML, tt.expected)
		}
	}
}

func TestConvertCodeBlockWithLanguage(t *testing.T) {
	res, err := Convert("```go\nfmt.Println(\"hello\")\n```", false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(res.HTML, `<div class="code-block" data-lang="go">`) {
		t.Errorf("code block should be highlighted: %q", res.HTML)
	}
	if strings.Contains(res.HTML, "code-plain") {
		t.Errorf("highlighted block should not be plain: %q", res.HTML)
	}
}

func TestConvertCodeBlockWithoutLanguage(t *testing.T) {
	res, err := Convert("```\n<plain> code\n```", false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	want := `<pre class="code-plain"><code class="code-inline">&lt;plain&gt; code</code></pre>`
	if !strings.Contains(res.HTML, want) {
		t.Errorf("Convert = %q, want it to contain %q", res.HTML, want)
	}
}

func TestConvertInlineCode(t *testing.T) {
	res, err := Convert("use `go test` here", false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(res.HTML, `<code class="code-inline">go test</code>`) {
		t.Errorf("inline code not rendered: %q", res.HTML)
	}
}

func TestConvertThemeChangesHighlighting(t *testing.T) {
	md := "```python\nprint('hi')\n```"
	lightRes, err := Convert(md, false)
	if err != nil {
		t.Fatalf("Convert light failed: %v", err)
	}
	darkRes, err := Convert(md, true)
	if err != nil {
		t.Fatalf("Convert dark failed: %v", err)
	}
	if lightRes.HTML == darkRes.HTML {
		t.Error("light and dark renderings should differ")
	}
}

func TestConvertGFMTable(t *testing.T) {
	res, err := Convert("| a | b |\n|---|---|\n| 1 | 2 |", false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(res.HTML, "<table>") {
		t.Errorf("expected a table: %q", res.HTML)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Hi", false).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<h1") {
		t.Errorf("component output = %q", buf.String())
	}
}

func TestConvertHeadingsFollowRenderedIDs(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want []string
	}{
		{"setext then atx", "Intro\n=====\n\n# Intro\n", []string{"Intro", "Intro-2"}},
		{"blockquote then atx", "> # Quoted\n\n# Quoted\n", []string{"Quoted", "Quoted-2"}},
		{"indented atx", "  # Lead\n\n# Lead\n", []string{"Lead", "Lead-2"}},
		{"closing sequence", "## Title ##\n", []string{"Title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Convert(tt.md, false)
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			dom, err := toc.LocateHeadings(res.HTML)
			if err != nil {
				t.Fatalf("LocateHeadings failed: %v", err)
			}
			var got []string
			for _, h := range res.Headings {
				got = append(got, h.ID)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("heading ids = %q, want %q", got, tt.want)
			}
			if strings.Join(dom, ",") != strings.Join(tt.want, ",") {
				t.Errorf("rendered ids = %q, want %q", dom, tt.want)
			}
		})
	}
}

func TestConvertSetextHeadingLevels(t *testing.T) {
	res, err := Convert("Top\n===\n\nSub\n---\n", false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(res.Headings) != 2 {
		t.Fatalf("headings = %v, want 2", res.Headings)
	}
	if h := res.Headings[1]; h.Title != "Sub" || h.Depth != 2 || h.Level != toc.IndentUnit {
		t.Errorf("second heading = %+v, want Sub at depth 2", h)
	}
}
