package quillkit

import (
	"bytes"
	"context"
	"image/png"
	"reflect"
	"testing"
)

func ogTestSetup(t *testing.T) (SiteConfig, *Localizer) {
	t.Helper()
	cfg := SiteConfig{Name: "Test Site", Timezone: "UTC"}
	cfg.setDefaults()
	tr, err := NewTranslator("en", "")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	return cfg, &Localizer{Lang: "en", tr: tr}
}

func TestOGRenderProducesCard(t *testing.T) {
	cfg, loc := ogTestSetup(t)
	r := newOGRenderer()

	post := BlogPost{Slug: "hello", Title: "Hello World", PubDatetime: "2026-01-15T09:00:00"}
	data, err := r.render(context.Background(), post, cfg, loc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 1200 || b.Dy() != 630 {
		t.Errorf("card is %dx%d, want 1200x630", b.Dx(), b.Dy())
	}
}

func TestOGRenderMemoizes(t *testing.T) {
	cfg, loc := ogTestSetup(t)
	r := newOGRenderer()
	post := BlogPost{Slug: "memo", Title: "Memoized"}

	first, err := r.render(context.Background(), post, cfg, loc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.render(context.Background(), post, cfg, loc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Cache hit hands back the identical byte slice.
	if &first[0] != &second[0] {
		t.Error("second render did not come from the cache")
	}

	r.invalidate("memo")
	third, err := r.render(context.Background(), post, cfg, loc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, third) {
		t.Error("re-render after invalidate should be byte-identical for the same post")
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxCols  int
		maxLines int
		want     []string
	}{
		{"empty", "", 10, 2, nil},
		{"single line", "hello world", 20, 2, []string{"hello world"}},
		{"wraps at width", "one two three four", 9, 4, []string{"one two", "three", "four"}},
		{"exactly fills lines", "aaaa bbbb", 4, 2, []string{"aaaa", "bbbb"}},
		{"truncates with ellipsis", "aaaa bbbb cccc", 4, 2, []string{"aaaa", "bbb…"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.in, tt.maxCols, tt.maxLines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrapText(%q, %d, %d) = %v, want %v", tt.in, tt.maxCols, tt.maxLines, got, tt.want)
			}
		})
	}
}
