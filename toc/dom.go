package toc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageTitleID is the id of the page's main title, which is never tracked.
const PageTitleID = "pageTitle"

// LocateHeadings returns the ids of the h1, h2 and h3 elements in rendered
// HTML, in document order. The page title and headings without an id are left out.
func LocateHeadings(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("toc: parse rendered html: %w", err)
	}
	var ids []string
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" || id == PageTitleID {
			return
		}
		ids = append(ids, id)
	})
	return ids, nil
}
