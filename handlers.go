package quillkit

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

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
	loc := a.I18n.Localize(c)
	if c.Request().Header.Get("HX-Request") == "true" {
		partial := c.QueryParam("partial")
		switch partial {
		case "blog":
			return Render(c, a.Views.BlogSection(posts, tag, tags, loc))
		case "home":
			return Render(c, a.Views.HomePartial(posts, tag, tags, a.Config.URL, loc))
		}
	}
	return Render(c, a.Views.Home(posts, tag, tags, a.Config.URL, loc))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.I18n.Localize(c)))
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	loc := a.I18n.Localize(c)
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "post" {
		return Render(c, a.Views.PostPartial(post, posts, a.Config.URL, loc))
	}
	return Render(c, a.Views.Post(post, posts, a.Config.URL, loc))
}

func (a *App) handleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	var results []BlogPost
	if query != "" {
		var err error
		results, err = a.Cache.Search(query)
		if err != nil {
			return err
		}
	}
	return Render(c, a.Views.SearchResults(query, results, a.I18n.Localize(c)))
}

// handleOGImage serves the generated social preview card for a post. Hidden
// posts 404 here like everywhere else; the card must not leak a scheduled
// post's title early.
func (a *App) handleOGImage(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	data, err := a.og.render(c.Request().Context(), post, a.Config, a.I18n.Localize(c))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", data)
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

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the canonical URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.I18n.Localize(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.I18n.Localize(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
