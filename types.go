package postline

import "github.com/eringen/postline/toc"

// BlogPost is the core content type loaded from a markdown file and indexed in SQLite.
type BlogPost struct {
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Link      string
	Slug      string
	Content   string
	Published bool
}

// RenderedPost is a post body converted to HTML for one theme.
type RenderedPost struct {
	HTML     string
	Headings []toc.Heading
	Order    []string // ids of the tracked h1-h3 headings in document order
}

// PostPage is everything the post template needs.
type PostPage struct {
	Post     BlogPost
	Body     RenderedPost
	Related  []BlogPost
	Active   string // active heading id, "" when the reader has not scrolled yet
	Dark     bool
	CSRF     string
	SiteURL  string
	SiteName string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Image is a downscaled media file served from the content media directory.
type Image struct {
	Filename string
	Width    int
	Height   int
	Size     int
}
