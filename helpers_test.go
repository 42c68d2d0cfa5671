package quillkit

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Multiple   Spaces  ", "multiple-spaces"},
		{"Already-slugged", "already-slugged"},
		{"Trailing punctuation!!!", "trailing-punctuation"},
		{"Ünïcode führt zu Bindestrichen", "n-code-f-hrt-zu-bindestrichen"},
		{"2026 Year In Review", "2026-year-in-review"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "my-post"}, "https://example.com/blog/my-post/"},
		{"https://example.com/sub", []string{"blog"}, "https://example.com/sub/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := BlogPost{Slug: "a", Tags: []string{"Go", "web"}}
	posts := []BlogPost{
		{Slug: "a", Tags: []string{"go"}},        // the post itself
		{Slug: "b", Tags: []string{"go"}},        // shares a tag (case-insensitive)
		{Slug: "c", Tags: []string{"databases"}}, // no shared tag
		{Slug: "d", Tags: []string{"WEB", "go"}}, // shares two, appears once
	}
	related := FilterRelatedPosts(current, posts)
	if len(related) != 2 || related[0].Slug != "b" || related[1].Slug != "d" {
		t.Errorf("FilterRelatedPosts = %v, want [b d]", related)
	}
}

func TestSummarizeMarkdown(t *testing.T) {
	md := "# Heading\n\nThis is **bold** prose with a [link](https://example.com) in it."
	got := SummarizeMarkdown(md, 200)
	if strings.ContainsAny(got, "<>#*[") {
		t.Errorf("summary contains markup: %q", got)
	}
	if !strings.Contains(got, "bold prose") {
		t.Errorf("summary lost text: %q", got)
	}

	long := strings.Repeat("word ", 100)
	short := SummarizeMarkdown(long, 30)
	if !strings.HasSuffix(short, "…") {
		t.Errorf("truncated summary missing ellipsis: %q", short)
	}
	if len([]rune(short)) > 31 {
		t.Errorf("summary too long: %d runes", len([]rune(short)))
	}
}

func TestPublishedAt(t *testing.T) {
	cfg := SiteConfig{Timezone: "Asia/Bangkok"}
	p := BlogPost{PubDatetime: "2026-06-01T09:00:00"}
	got := PublishedAt(p, cfg)
	want := time.Date(2026, 6, 1, 2, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", got, want)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{
		Name:     "Test Site",
		URL:      "https://example.com",
		Author:   "Jane Doe",
		Timezone: "Asia/Bangkok",
	}
	post := BlogPost{
		Slug:        "my-post",
		Title:       "My Post",
		Summary:     "About things.",
		PubDatetime: "2026-06-01T09:00:00",
		Tags:        []string{"go", "web"},
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["@type"] != "BlogPosting" {
		t.Errorf("@type = %v", data["@type"])
	}
	// The resolved UTC instant, not the raw wall-clock string.
	if data["datePublished"] != "2026-06-01T02:00:00Z" {
		t.Errorf("datePublished = %v", data["datePublished"])
	}
	if data["url"] != "https://example.com/blog/my-post/" {
		t.Errorf("url = %v", data["url"])
	}
	if data["image"] != "https://example.com/blog/my-post/og.png" {
		t.Errorf("image = %v", data["image"])
	}
	if data["keywords"] != "go, web" {
		t.Errorf("keywords = %v", data["keywords"])
	}
}
