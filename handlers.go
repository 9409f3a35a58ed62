package postline

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eringen/postline/toc"
)

const (
	// maxBatch bounds the records accepted in one visibility report.
	maxBatch   = 256
	maxRelated = 5
)

type visibilityRequest struct {
	Records []toc.Record `json:"records"`
}

type visibilityResponse struct {
	Active string `json:"active"`
}

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	page := HomePage{
		Posts:     posts,
		ActiveTag: tag,
		Tags:      tags,
		Dark:      IsDark(c),
		CSRF:      CsrfToken(c),
		SiteURL:   a.Config.URL,
	}
	if isHTMX(c) && c.QueryParam("partial") == "home" {
		return Render(c, a.Views.HomePartial(page))
	}
	return Render(c, a.Views.Home(page))
}

// postPage loads the post named by the :slug param and renders its body for
// the reader's theme.
func (a *App) postPage(c echo.Context) (PostPage, error) {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		return PostPage{}, err
	}
	dark := IsDark(c)
	body, err := a.Cache.Rendered(post, dark)
	if err != nil {
		return PostPage{}, err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{
		Post:     post,
		Body:     body,
		Related:  RelatedPosts(post, posts, maxRelated),
		Active:   a.Readers.Active(ReaderID(c), slug),
		Dark:     dark,
		CSRF:     CsrfToken(c),
		SiteURL:  a.Config.URL,
		SiteName: a.Config.Name,
	}, nil
}

func (a *App) handlePost(c echo.Context) error {
	page, err := a.postPage(c)
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	if isHTMX(c) && c.QueryParam("partial") == "post" {
		return Render(c, a.Views.PostPartial(page))
	}
	return Render(c, a.Views.Post(page))
}

// handleTOC renders only the table of contents with the reader's active heading.
func (a *App) handleTOC(c echo.Context) error {
	page, err := a.postPage(c)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.TOC(page.Post.Slug, page.Body.Headings, page.Active))
}

// handleVisibility receives the intersection changes observed by the
// reader's browser and answers with the heading to highlight.
func (a *App) handleVisibility(c echo.Context) error {
	if !a.eventLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many visibility reports. Slow down.")
	}
	var req visibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visibility batch")
	}
	if len(req.Records) > maxBatch {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d records per batch", maxBatch))
	}

	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	body, err := a.Cache.Rendered(post, IsDark(c))
	if err != nil {
		return err
	}

	active := a.Readers.Report(ReaderID(c), slug, body.Order, req.Records)
	a.Log.WithFields(logrus.Fields{"slug": slug, "records": len(req.Records), "active": active}).Debug("visibility batch")
	if isHTMX(c) {
		return Render(c, a.Views.TOC(slug, body.Headings, active))
	}
	return c.JSON(http.StatusOK, visibilityResponse{Active: active})
}

// handleTheme toggles between the light and dark theme.
func (a *App) handleTheme(c echo.Context) error {
	if err := setDark(c, !IsDark(c)); err != nil {
		return err
	}
	if isHTMX(c) {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, sameSiteReturn(c.Request().Referer()))
}

// sameSiteReturn keeps only the path and query of a referer so the theme
// toggle never redirects off site.
func sameSiteReturn(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	ret := &url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return ret.String()
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

// handleRobots generates robots.txt from the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /theme/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && c.Request().Method == http.MethodGet {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.WithError(err).WithField("uri", c.Request().RequestURI).Error("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
