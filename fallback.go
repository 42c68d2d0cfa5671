package quillkit

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/quillkit/quillkit/markdown"
)

// DefaultViews returns a plain, unstyled set of templates. They exist so the
// CLI works out of the box and so library users can start serving content
// before writing their own templ components. Any field left nil in a custom
// ViewFuncs can be filled from here.
func DefaultViews(cfg SiteConfig) ViewFuncs {
	page := func(meta PageMeta, body func(w io.Writer) error) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html lang=%q><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title>",
				cfg.Locale, html.EscapeString(meta.Title)); err != nil {
				return err
			}
			if meta.Description != "" {
				if _, err := fmt.Fprintf(w, `<meta name="description" content=%q><meta property="og:description" content=%q>`,
					meta.Description, meta.Description); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<meta property="og:title" content=%q><meta property="og:type" content=%q><meta property="og:url" content=%q>`,
				meta.Title, meta.OGType, meta.URL); err != nil {
				return err
			}
			if meta.ImageURL != "" {
				if _, err := fmt.Fprintf(w, `<meta property="og:image" content=%q>`, meta.ImageURL); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "</head><body><header><h1><a href=\"/\">%s</a></h1></header><main>",
				html.EscapeString(cfg.Name)); err != nil {
				return err
			}
			if err := body(w); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</main></body></html>")
			return err
		})
	}

	adminPage := func(title string, body func(w io.Writer) error) templ.Component {
		return page(PageMeta{Title: title + " | " + cfg.Name, URL: BuildURL(cfg.URL), OGType: "website"}, body)
	}

	postList := func(w io.Writer, posts []BlogPost, loc *Localizer) error {
		if _, err := io.WriteString(w, "<ul>"); err != nil {
			return err
		}
		for _, p := range posts {
			published := loc.FormatDate(PublishedAt(p, cfg))
			if _, err := fmt.Fprintf(w, "<li><a href=\"/blog/%s/\">%s</a> <time>%s</time></li>",
				PathEscape(p.Slug), html.EscapeString(p.Title), html.EscapeString(published)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>")
		return err
	}

	home := func(posts []BlogPost, activeTag string, tags []string, _ string, loc *Localizer) templ.Component {
		return page(SiteMeta(cfg), func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, WebsiteJsonLD(cfg)); err != nil {
				return err
			}
			if activeTag != "" {
				if _, err := fmt.Fprintf(w, "<h2>#%s</h2>", html.EscapeString(activeTag)); err != nil {
					return err
				}
			}
			if err := postList(w, posts, loc); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "<nav>"); err != nil {
				return err
			}
			for _, t := range tags {
				if _, err := fmt.Fprintf(w, "<a href=\"/?tag=%s\">#%s</a> ", PathEscape(t), html.EscapeString(t)); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, "</nav>")
			return err
		})
	}

	post := func(p BlogPost, posts []BlogPost, _ string, loc *Localizer) templ.Component {
		return page(PostMeta(p, cfg), func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, BlogPostingJsonLD(p, cfg)); err != nil {
				return err
			}
			published := loc.FormatDate(PublishedAt(p, cfg))
			if _, err := fmt.Fprintf(w, "<article><h2>%s</h2><p><time>%s</time></p>",
				html.EscapeString(p.Title), html.EscapeString(published)); err != nil {
				return err
			}
			if err := markdown.Markdown(p.Content).Render(context.Background(), w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "</article>"); err != nil {
				return err
			}
			related := FilterRelatedPosts(p, posts)
			if len(related) == 0 {
				return nil
			}
			if _, err := fmt.Fprintf(w, "<aside><h3>%s</h3>", html.EscapeString(loc.T("post.related"))); err != nil {
				return err
			}
			if err := postList(w, related, loc); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</aside>")
			return err
		})
	}

	adminForm := func(w io.Writer, p BlogPost, csrfToken string) error {
		draftChecked := ""
		if p.Draft {
			draftChecked = " checked"
		}
		_, err := fmt.Fprintf(w, `<form method="post" action="/admin/save/">
<input type="hidden" name="_csrf" value=%q>
<p><label>Title <input name="title" value=%q required></label></p>
<p><label>Slug <input name="slug" value=%q></label></p>
<p><label>Publish at <input name="pub_datetime" value=%q placeholder="2026-01-15T09:00"></label></p>
<p><label>Tags <input name="tags" value=%q></label></p>
<p><label>Summary <input name="summary" value=%q></label></p>
<p><label><input type="checkbox" name="draft"%s> Draft</label></p>
<p><textarea name="content" rows="20" cols="80">%s</textarea></p>
<p><button type="submit">Save</button></p>
</form>`,
			csrfToken, p.Title, p.Slug, p.PubDatetime,
			JoinTags(p.Tags), p.Summary, draftChecked, html.EscapeString(p.Content))
		return err
	}

	return ViewFuncs{
		Home:        home,
		HomePartial: home,
		BlogSection: func(posts []BlogPost, activeTag string, tags []string, loc *Localizer) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				return postList(w, posts, loc)
			})
		},
		Post:        post,
		PostPartial: post,
		SearchResults: func(query string, posts []BlogPost, loc *Localizer) templ.Component {
			return adminPage(loc.T("nav.search"), func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, `<form action="/search"><input type="search" name="q" value=%q placeholder=%q><button>%s</button></form>`,
					query, loc.T("search.placeholder"), html.EscapeString(loc.T("nav.search"))); err != nil {
					return err
				}
				if query == "" {
					return nil
				}
				if len(posts) == 0 {
					_, err := fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(loc.T("search.no_results")))
					return err
				}
				return postList(w, posts, loc)
			})
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return adminPage("Login", func(w io.Writer) error {
				if showError {
					if _, err := io.WriteString(w, "<p>Invalid password.</p>"); err != nil {
						return err
					}
				}
				_, err := fmt.Fprintf(w, `<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value=%q><input type="password" name="password" autofocus><button type="submit">Login</button></form>`, csrfToken)
				return err
			})
		},
		AdminDashboard: func(posts []BlogPost, message string, csrfToken string) templ.Component {
			return adminPage("Admin", func(w io.Writer) error {
				if message != "" {
					if _, err := fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(message)); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `<p><a href="/admin/post/new/">New post</a> <a href="/admin/images/">Images</a></p><ul>`); err != nil {
					return err
				}
				for _, p := range posts {
					label := ""
					if p.Draft {
						label = " (draft)"
					}
					if _, err := fmt.Fprintf(w, "<li><a href=\"/admin/post/%s/\">%s</a>%s <time>%s</time></li>",
						PathEscape(p.Slug), html.EscapeString(p.Title), label, html.EscapeString(p.PubDatetime)); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, "</ul>"); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, `<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value=%q><button type="submit">Logout</button></form>`, csrfToken)
				return err
			})
		},
		AdminFormPartial: func(p BlogPost, csrfToken string) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				return adminForm(w, p, csrfToken)
			})
		},
		AdminImages: func(images []Image, csrfToken string) templ.Component {
			return adminPage("Images", func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, `<form method="post" action="/admin/images/upload/" enctype="multipart/form-data"><input type="hidden" name="_csrf" value=%q><input type="file" name="image" accept="image/*"><button type="submit">Upload</button></form><ul>`, csrfToken); err != nil {
					return err
				}
				for _, img := range images {
					if _, err := fmt.Fprintf(w, "<li><a href=\"/public/uploads/%s\">%s</a> %dx%d</li>",
						PathEscape(img.Filename), html.EscapeString(img.Filename), img.Width, img.Height); err != nil {
						return err
					}
				}
				_, err := io.WriteString(w, "</ul>")
				return err
			})
		},
		NotFound: func(loc *Localizer) templ.Component {
			return adminPage("404", func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(loc.T("error.not_found")))
				return err
			})
		},
		ServerError: func(loc *Localizer) templ.Component {
			return adminPage("500", func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(loc.T("error.server")))
				return err
			})
		},
	}
}
