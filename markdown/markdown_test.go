package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int))
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int))
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineNested(t *testing.T) {
	got := FormatInline("**bold *italic* text**", new(int))
	want := "<strong>bold <em>italic</em> text</strong>"
	if got != want {
		t.Errorf("FormatInline nested = %q, want %q", got, want)
	}
}

func TestFormatInlineInlineCodeNotFormatted(t *testing.T) {
	got := FormatInline("use `**argv` here", new(int))
	if !strings.Contains(got, "<code>**argv</code>") {
		t.Errorf("inline code contents should not be formatted: %q", got)
	}
}

func TestFormatInlineLink(t *testing.T) {
	got := FormatInline("[home](/about)", new(int))
	if !strings.Contains(got, `<a href="/about"`) {
		t.Errorf("relative link should render: %q", got)
	}
	got = FormatInline("[ext](https://example.com)^", new(int))
	if !strings.Contains(got, `target="_blank" rel="noopener noreferrer"`) {
		t.Errorf("caret link should open in a new tab: %q", got)
	}
}

func TestFormatInlineDropsUnsafeLink(t *testing.T) {
	got := FormatInline("[click](javascript:alert(1))", new(int))
	if strings.Contains(got, "<a ") || strings.Contains(got, "javascript:") {
		t.Errorf("javascript: URL must be dropped: %q", got)
	}
	if !strings.Contains(got, "click") {
		t.Errorf("link text should survive a dropped URL: %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com", "https://example.com"},
		{"/blog/post/", "/blog/post/"},
		{"#section", "#section"},
		{"mailto:hi@example.com", "mailto:hi@example.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html,x", ""},
		{"  ", ""},
		{"no-scheme.example", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
		{"#### Heading 4", "<h4>Heading 4</h4>"},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownCodeBlockWithLanguage(t *testing.T) {
	got := render("```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should have language-go class: %q", got)
	}
	if !strings.Contains(got, `<span class="code-lang code-lang-go">go</span>`) {
		t.Errorf("code block should have language badge: %q", got)
	}
	if !strings.Contains(got, "</div>") {
		t.Errorf("wrapper div should be closed: %q", got)
	}
}

func TestRenderMarkdownCodeBlockWithoutLanguage(t *testing.T) {
	got := render("```\nplain code\n```")
	if strings.Contains(got, "code-lang") || strings.Contains(got, "code-block-wrapper") {
		t.Errorf("bare code block should not have badge or wrapper: %q", got)
	}
	if !strings.Contains(got, "plain code") {
		t.Errorf("code block missing content: %q", got)
	}
}

func TestRenderMarkdownCodeBlockEscapes(t *testing.T) {
	got := render("```\n<script>alert(1)</script>\n```")
	if strings.Contains(got, "<script>") {
		t.Errorf("code block content must be escaped: %q", got)
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	got := render("- one\n- two")
	if !strings.Contains(got, "<ul><li>one</li><li>two</li></ul>") {
		t.Errorf("unordered list = %q", got)
	}
	got = render("1. first\n2. second")
	if !strings.Contains(got, "<ol><li>first</li><li>second</li></ol>") {
		t.Errorf("ordered list = %q", got)
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	got := render("| a | b |\n|---|---|\n| 1 | 2 |")
	for _, frag := range []string{"<table>", "<thead>", "<th>a</th>", "<tbody>", "<td>1</td>", "</table>"} {
		if !strings.Contains(got, frag) {
			t.Errorf("table output missing %q: %q", frag, got)
		}
	}
}

func TestRenderMarkdownBlockquoteAndRule(t *testing.T) {
	got := render("> wise words\n\n---")
	if !strings.Contains(got, "<blockquote>wise words</blockquote>") {
		t.Errorf("blockquote = %q", got)
	}
	if !strings.Contains(got, "<hr/>") {
		t.Errorf("horizontal rule = %q", got)
	}
}

func TestRenderMarkdownParagraphJoining(t *testing.T) {
	got := render("line one\nline two\n\nsecond para")
	if strings.Count(got, "<p>") != 2 {
		t.Errorf("expected two paragraphs: %q", got)
	}
}

func TestRenderMarkdownImageLoadingAttrs(t *testing.T) {
	got := render("![first](/a.jpg){w}\n\n![second](/b.jpg){w}")
	if !strings.Contains(got, `fetchpriority="high"`) {
		t.Errorf("first image should be high priority: %q", got)
	}
	if !strings.Contains(got, `loading="lazy"`) {
		t.Errorf("later images should lazy-load: %q", got)
	}
}
