package quillkit

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/quillkit/quillkit/schedule"
)

// ErrNotFound is returned when a requested post does not exist or is not
// visible yet.
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory cache of visible blog posts, their tags, and the
// search index, with TTL. It is the single place the publication filter runs:
// every public surface (listings, post pages, feed, sitemap, search, preview
// cards) reads through it, so drafts and scheduled posts cannot leak out of
// one consumer while hidden in another.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	tags    []string
	index   *searchIndex
	fetched time.Time
	ttl     time.Duration
	store   *Store
	env     func() schedule.Env
}

// NewPostCache creates a PostCache backed by the given Store. env supplies
// the evaluation context (timezone, margin, dev mode, now) fresh for each
// reload; the clock lives there so tests can pin it.
func NewPostCache(s *Store, ttl time.Duration, env func() schedule.Env) *PostCache {
	return &PostCache{store: s, ttl: ttl, env: env}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.index = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	all, err := c.store.ListPosts()
	if err != nil {
		return err
	}
	env := c.env()
	visible := make([]BlogPost, 0, len(all))
	tagSet := make(map[string]struct{})
	for _, p := range all {
		rec := schedule.Record{Draft: p.Draft, PubDatetime: p.PubDatetime}
		if !schedule.IsPublished(rec, env) {
			continue
		}
		visible = append(visible, p)
		for _, t := range p.Tags {
			tagSet[strings.ToLower(t)] = struct{}{}
		}
	}
	c.posts = visible
	c.tags = sortedTags(tagSet)
	c.index = buildSearchIndex(visible)
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached state after making sure it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]BlogPost, []string, *searchIndex, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags, index := c.posts, c.tags, c.index
		c.mu.RUnlock()
		return posts, tags, index, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, nil, err
	}
	return c.posts, c.tags, c.index, nil
}

// ListPosts returns visible posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []BlogPost
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags across visible posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, tags, _, err := c.ensureLoaded()
	return tags, err
}

// GetPost returns a single visible post by slug.
func (c *PostCache) GetPost(slug string) (BlogPost, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// Search runs a full-text query over visible posts, best matches first.
func (c *PostCache) Search(query string) ([]BlogPost, error) {
	posts, _, index, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return index.search(query, posts), nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
