package quillkit

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

// frontmatterDelim separates the YAML header from the markdown body.
var frontmatterDelim = []byte("---")

// ImportDir walks dir for .md files, parses their YAML frontmatter, and
// upserts each as a post. Files without frontmatter or without a title are
// skipped with a warning rather than aborting the import; one broken file
// should not block the rest of the content set.
func ImportDir(store *Store, dir string, log zerolog.Logger) (int, error) {
	imported := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("quillkit: read %s: %w", path, err)
		}
		post, err := parseMarkdownFile(d.Name(), raw)
		if err != nil {
			log.Warn().Str("file", path).Err(err).Msg("skipping content file")
			return nil
		}
		if err := store.SavePost(post); err != nil {
			return fmt.Errorf("quillkit: save %s: %w", path, err)
		}
		log.Info().Str("slug", post.Slug).Bool("draft", post.Draft).Msg("imported post")
		imported++
		return nil
	})
	return imported, err
}

// parseMarkdownFile turns a frontmatter-bearing markdown file into a BlogPost.
// The filename (minus extension) is the fallback slug.
func parseMarkdownFile(name string, raw []byte) (BlogPost, error) {
	fields, body, err := splitFrontmatter(raw)
	if err != nil {
		return BlogPost{}, err
	}

	title := stringField(fields, "title")
	if title == "" {
		return BlogPost{}, fmt.Errorf("missing title in frontmatter")
	}
	slug := stringField(fields, "slug")
	if slug == "" {
		slug = Slugify(strings.TrimSuffix(name, ".md"))
	}
	summary := stringField(fields, "description")
	if summary == "" {
		summary = SummarizeMarkdown(body, 200)
	}
	return BlogPost{
		Slug:        slug,
		Title:       title,
		PubDatetime: datetimeField(fields, "pubDatetime"),
		Tags:        tagsField(fields, "tags"),
		Summary:     summary,
		Content:     body,
		Draft:       boolField(fields, "draft"),
	}, nil
}

// splitFrontmatter expects the file to open with a --- delimited YAML block.
func splitFrontmatter(raw []byte) (map[string]any, string, error) {
	trimmed := bytes.TrimLeft(raw, "\ufeff\n\r")
	if !bytes.HasPrefix(trimmed, frontmatterDelim) {
		return nil, "", fmt.Errorf("no frontmatter block")
	}
	rest := trimmed[len(frontmatterDelim):]
	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelim...))
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated frontmatter block")
	}
	header := rest[:end]
	body := rest[end+1+len(frontmatterDelim):]

	fields := make(map[string]any)
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return fields, strings.TrimLeft(string(body), "\n\r"), nil
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func boolField(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

// datetimeField normalizes a frontmatter datetime to the stored wall-clock
// form. YAML parsers hand unquoted timestamps back as time.Time; their civil
// fields are kept and any attached offset dropped, since pubDatetime is by
// contract a wall-clock value in the site timezone.
func datetimeField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format("2006-01-02T15:04:05")
	default:
		return ""
	}
}

func tagsField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []any:
		var tags []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					tags = append(tags, s)
				}
			}
		}
		return tags
	case string:
		return FilterEmpty(strings.Split(v, ","))
	default:
		return nil
	}
}
