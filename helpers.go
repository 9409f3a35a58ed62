package postline

import (
	"encoding/json"
	"net/url"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/eringen/postline/toc"
)

// Slugify lowercases s and joins its runs of letters and digits with '-'.
// Letters from any script are kept, so "소개 글" becomes "소개-글".
func Slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}

// PostPath is the site-relative link of a post, without the trailing slash
// the router redirects to.
func PostPath(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

// PostURL is the canonical absolute URL of a post.
func PostURL(site, slug string) string {
	return BuildURL(site, "blog", slug)
}

// BuildURL resolves path segments against the site URL. Segments are escaped
// individually and a trailing slash is added, matching the router.
func BuildURL(site string, segments ...string) string {
	u, err := url.Parse(site)
	if err != nil {
		return site
	}
	if len(segments) == 0 {
		return u.String()
	}
	u.Path = path.Join(append([]string{"/", u.Path}, segments...)...) + "/"
	u.RawPath = ""
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RelatedPosts returns up to limit posts sharing a tag with current, the ones
// sharing the most tags first and newer first among equals. limit <= 0 means
// no limit.
func RelatedPosts(current BlogPost, posts []BlogPost, limit int) []BlogPost {
	tags := make(map[string]bool, len(current.Tags))
	for _, t := range current.Tags {
		if t = normalizeTag(t); t != "" {
			tags[t] = true
		}
	}
	type scored struct {
		post   BlogPost
		shared int
	}
	var candidates []scored
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		n := 0
		for _, t := range p.Tags {
			if tags[normalizeTag(t)] {
				n++
			}
		}
		if n > 0 {
			candidates = append(candidates, scored{p, n})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].shared != candidates[j].shared {
			return candidates[i].shared > candidates[j].shared
		}
		return candidates[i].post.Date > candidates[j].post.Date
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	related := make([]BlogPost, len(candidates))
	for i, c := range candidates {
		related[i] = c.post
	}
	return related
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// ldObject is a Schema.org node; marshalled into a <script type="application/ld+json">.
type ldObject map[string]any

func ldPerson(name string) ldObject {
	return ldObject{"@type": "Person", "name": name}
}

func (o ldObject) String() string {
	b, err := json.Marshal(o)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD describes the site as a Schema.org WebSite.
func WebsiteJsonLD(cfg SiteConfig) string {
	site := ldObject{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		site["description"] = cfg.Description
	}
	if cfg.Author != "" {
		site["author"] = ldPerson(cfg.Author)
	}
	return site.String()
}

// BlogPostingJsonLD describes post as a Schema.org BlogPosting. Its headings
// down to depth 2 become the articleSection list.
func BlogPostingJsonLD(post BlogPost, headings []toc.Heading, cfg SiteConfig) string {
	postURL := PostURL(cfg.URL, post.Slug)
	article := ldObject{
		"@context":         "https://schema.org",
		"@type":            "BlogPosting",
		"headline":         post.Title,
		"description":      post.Summary,
		"datePublished":    post.Date,
		"url":              postURL,
		"mainEntityOfPage": ldObject{"@type": "WebPage", "@id": postURL},
	}
	if cfg.Author != "" {
		article["author"] = ldPerson(cfg.Author)
	}
	if cfg.Name != "" {
		article["publisher"] = ldObject{"@type": "Organization", "name": cfg.Name}
	}
	if len(post.Tags) > 0 {
		article["keywords"] = strings.Join(post.Tags, ", ")
	}
	var sections []string
	for _, h := range headings {
		if h.Depth <= 2 {
			sections = append(sections, h.Title)
		}
	}
	if len(sections) > 0 {
		article["articleSection"] = sections
	}
	return article.String()
}
