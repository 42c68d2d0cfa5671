package quillkit

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseMarkdownFileFull(t *testing.T) {
	raw := []byte(`---
title: Shipping on a Schedule
slug: shipping
pubDatetime: "2026-03-01T09:00:00"
tags:
  - go
  - releases
description: How the release train runs.
draft: true
---
# Shipping

Body text here.
`)
	post, err := parseMarkdownFile("2026-03-01-shipping.md", raw)
	if err != nil {
		t.Fatalf("parseMarkdownFile: %v", err)
	}
	if post.Slug != "shipping" {
		t.Errorf("Slug = %q", post.Slug)
	}
	if post.Title != "Shipping on a Schedule" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.PubDatetime != "2026-03-01T09:00:00" {
		t.Errorf("PubDatetime = %q", post.PubDatetime)
	}
	if !reflect.DeepEqual(post.Tags, []string{"go", "releases"}) {
		t.Errorf("Tags = %v", post.Tags)
	}
	if post.Summary != "How the release train runs." {
		t.Errorf("Summary = %q", post.Summary)
	}
	if !post.Draft {
		t.Error("Draft = false, want true")
	}
	if !strings.HasPrefix(post.Content, "# Shipping") {
		t.Errorf("Content = %q", post.Content)
	}
}

func TestDatetimeFieldCoercion(t *testing.T) {
	// Some YAML decoders hand unquoted datetimes back as time.Time; the civil
	// fields survive and any attached offset is dropped.
	bangkok := time.FixedZone("ICT", 7*3600)
	fields := map[string]any{
		"asTime":   time.Date(2026, 3, 1, 9, 0, 0, 0, bangkok),
		"asString": " 2026-03-01T09:00:00 ",
		"asInt":    42,
	}
	if got := datetimeField(fields, "asTime"); got != "2026-03-01T09:00:00" {
		t.Errorf("time.Time coercion = %q, want civil fields without offset", got)
	}
	if got := datetimeField(fields, "asString"); got != "2026-03-01T09:00:00" {
		t.Errorf("string coercion = %q", got)
	}
	if got := datetimeField(fields, "asInt"); got != "" {
		t.Errorf("non-datetime value = %q, want empty", got)
	}
	if got := datetimeField(fields, "missing"); got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
}

func TestParseMarkdownFileFallbacks(t *testing.T) {
	raw := []byte(`---
title: No Extras
---
Some body prose that should become the summary.
`)
	post, err := parseMarkdownFile("My File Name.md", raw)
	if err != nil {
		t.Fatalf("parseMarkdownFile: %v", err)
	}
	if post.Slug != "my-file-name" {
		t.Errorf("fallback Slug = %q, want my-file-name", post.Slug)
	}
	if !strings.Contains(post.Summary, "summary") {
		t.Errorf("Summary = %q, want derived from body", post.Summary)
	}
	if post.Draft {
		t.Error("Draft should default to false")
	}
}

func TestParseMarkdownFileTagsCSV(t *testing.T) {
	raw := []byte(`---
title: CSV Tags
tags: "go, web, "
---
Body.
`)
	post, err := parseMarkdownFile("csv.md", raw)
	if err != nil {
		t.Fatalf("parseMarkdownFile: %v", err)
	}
	if !reflect.DeepEqual(post.Tags, []string{"go", "web"}) {
		t.Errorf("Tags = %v, want [go web]", post.Tags)
	}
}

func TestParseMarkdownFileErrors(t *testing.T) {
	if _, err := parseMarkdownFile("x.md", []byte("just a body, no frontmatter")); err == nil {
		t.Error("expected error for missing frontmatter")
	}
	if _, err := parseMarkdownFile("x.md", []byte("---\ndraft: true\n---\nBody.")); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := parseMarkdownFile("x.md", []byte("---\ntitle: Unterminated\nBody.")); err == nil {
		t.Error("expected error for unterminated frontmatter")
	}
}

func TestImportDir(t *testing.T) {
	store := setupTestStore(t)
	dir := t.TempDir()

	good := `---
title: Good Post
pubDatetime: "2026-01-01T00:00:00"
---
Content.
`
	bad := "no frontmatter here"
	if err := os.WriteFile(filepath.Join(dir, "good-post.md"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.md"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := ImportDir(store, dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if n != 1 {
		t.Errorf("imported %d posts, want 1 (bad file skipped, txt ignored)", n)
	}
	if _, err := store.GetPost("good-post"); err != nil {
		t.Errorf("GetPost(good-post): %v", err)
	}
}
