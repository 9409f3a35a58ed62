// Package toc builds the table of contents for a post and tracks which of its
// headings the reader is currently looking at.
package toc

import (
	"strconv"
	"strings"
)

// IndentUnit is the indent step between two heading depths.
const IndentUnit = 5

const maxDepth = 6

// Heading is one table-of-contents entry derived from markdown source.
type Heading struct {
	ID    string // DOM id of the rendered heading and TOC anchor target
	Title string
	Depth int // number of leading '#'
	Level int // (Depth-1) * IndentUnit
}

// SkipReason explains why a line starting with '#' did not produce a heading.
type SkipReason string

const (
	SkipEmptyTitle   SkipReason = "empty title"
	SkipMissingSpace SkipReason = "missing space"
	SkipTooDeep      SkipReason = "too deep"
)

// LineResult is the outcome of parsing one candidate heading line.
type LineResult struct {
	Line    int // 1-based line number in the source
	Heading Heading
	Skipped SkipReason
}

// Parsed reports whether the line produced a heading.
func (r LineResult) Parsed() bool {
	return r.Skipped == ""
}

// ParseLine parses a single line that starts with '#'. ok is false when the
// line is not a heading candidate at all.
func ParseLine(line string) (res LineResult, ok bool) {
	line = strings.TrimRight(line, "\r")
	if !strings.HasPrefix(line, "#") {
		return LineResult{}, false
	}
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	rest := line[depth:]
	switch {
	case depth > maxDepth:
		return LineResult{Skipped: SkipTooDeep}, true
	case strings.TrimSpace(rest) == "":
		return LineResult{Skipped: SkipEmptyTitle}, true
	case rest[0] != ' ' && rest[0] != '\t':
		return LineResult{Skipped: SkipMissingSpace}, true
	}
	title := NormalizeTitle(stripClosingSequence(rest))
	if title == "" {
		return LineResult{Skipped: SkipEmptyTitle}, true
	}
	return LineResult{Heading: Heading{
		Title: title,
		Depth: depth,
		Level: (depth - 1) * IndentUnit,
	}}, true
}

// NormalizeTitle strips backticks and surrounding whitespace from heading text.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "`", ""))
}

// stripClosingSequence drops an optional trailing run of '#' that is preceded
// by whitespace ("## Title ##").
func stripClosingSequence(s string) string {
	t := strings.TrimRight(s, " \t")
	trimmed := strings.TrimRight(t, "#")
	if trimmed == t {
		return s
	}
	if trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
		return trimmed
	}
	return s
}

// ParseLines runs ParseLine over every line of md outside fenced code blocks
// and returns one result per candidate line, in document order.
func ParseLines(md string) []LineResult {
	var results []LineResult
	fence := ""
	for i, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")
		if marker := fenceMarker(line); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(strings.TrimSpace(line), fence):
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}
		res, ok := ParseLine(line)
		if !ok {
			continue
		}
		res.Line = i + 1
		results = append(results, res)
	}
	return results
}

func fenceMarker(line string) string {
	t := strings.TrimLeft(line, " ")
	if len(line)-len(t) > 3 {
		return ""
	}
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(t, m) {
			return m
		}
	}
	return ""
}

// Extract returns the headings of md in document order with DOM ids assigned.
// Malformed heading lines are skipped.
func Extract(md string) []Heading {
	var ids IDs
	var headings []Heading
	for _, res := range ParseLines(md) {
		if !res.Parsed() {
			continue
		}
		h := res.Heading
		h.ID = ids.Assign(h.Title)
		headings = append(headings, h)
	}
	return headings
}

// IDs hands out DOM ids for heading titles. The first occurrence of a title
// keeps the title itself; repeats get "-2", "-3" and so on. The zero value is
// ready to use.
type IDs struct {
	seen map[string]int
}

// Assign returns the id for the next heading titled title.
func (g *IDs) Assign(title string) string {
	if g.seen == nil {
		g.seen = make(map[string]int)
	}
	id := title
	for n := g.seen[title]; n > 0; n++ {
		candidate := title + "-" + strconv.Itoa(n+1)
		if _, taken := g.seen[candidate]; !taken {
			id = candidate
			break
		}
	}
	g.seen[title]++
	if id != title {
		g.seen[id]++
	}
	return id
}
