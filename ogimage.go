package quillkit

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/semaphore"
)

const (
	ogWidth  = 1200
	ogHeight = 630

	// PNG composition allocates a few MB per render; the semaphore keeps a
	// crawler stampede over many posts from holding them all at once.
	maxConcurrentOGRenders = 2

	ogTitleScale  = 5
	ogFooterScale = 3
	ogMarginX     = 80
	ogMaxLines    = 4
)

var (
	ogBackground = color.RGBA{R: 24, G: 24, B: 27, A: 255}
	ogAccent     = color.RGBA{R: 255, G: 107, B: 1, A: 255}
	ogTitleInk   = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	ogFooterInk  = color.RGBA{R: 161, G: 161, B: 170, A: 255}
)

// ogRenderer produces 1200x630 social preview cards for posts. Rendered
// cards are memoized by slug; admin saves invalidate them.
type ogRenderer struct {
	sem   *semaphore.Weighted
	mu    sync.Mutex
	cache map[string][]byte
}

func newOGRenderer() *ogRenderer {
	return &ogRenderer{
		sem:   semaphore.NewWeighted(maxConcurrentOGRenders),
		cache: make(map[string][]byte),
	}
}

func (r *ogRenderer) invalidate(slug string) {
	r.mu.Lock()
	delete(r.cache, slug)
	r.mu.Unlock()
}

func (r *ogRenderer) invalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string][]byte)
	r.mu.Unlock()
}

// render returns the PNG card for a post, generating it on first use.
func (r *ogRenderer) render(ctx context.Context, post BlogPost, cfg SiteConfig, loc *Localizer) ([]byte, error) {
	r.mu.Lock()
	if data, ok := r.cache[post.Slug]; ok {
		r.mu.Unlock()
		return data, nil
	}
	r.mu.Unlock()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	// Another request may have rendered the same slug while we waited.
	r.mu.Lock()
	if data, ok := r.cache[post.Slug]; ok {
		r.mu.Unlock()
		return data, nil
	}
	r.mu.Unlock()

	data, err := composeOGCard(post, cfg, loc)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[post.Slug] = data
	r.mu.Unlock()
	return data, nil
}

func composeOGCard(post BlogPost, cfg SiteConfig, loc *Localizer) ([]byte, error) {
	card := image.NewRGBA(image.Rect(0, 0, ogWidth, ogHeight))
	draw.Draw(card, card.Bounds(), image.NewUniform(ogBackground), image.Point{}, draw.Src)
	draw.Draw(card, image.Rect(0, ogHeight-12, ogWidth, ogHeight), image.NewUniform(ogAccent), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	maxTitleCols := (ogWidth - 2*ogMarginX) / (face.Advance * ogTitleScale)
	lines := wrapText(post.Title, maxTitleCols, ogMaxLines)

	y := 140
	for _, line := range lines {
		blitText(card, line, face, ogTitleInk, ogTitleScale, ogMarginX, y)
		y += face.Height * ogTitleScale * 13 / 10
	}

	footer := cfg.Name
	if post.PubDatetime != "" {
		footer += "  ·  " + loc.FormatDate(PublishedAt(post, cfg))
	}
	blitText(card, footer, face, ogFooterInk, ogFooterScale, ogMarginX, ogHeight-110)

	var buf bytes.Buffer
	if err := png.Encode(&buf, card); err != nil {
		return nil, fmt.Errorf("quillkit: encode preview card: %w", err)
	}
	return buf.Bytes(), nil
}

// blitText draws s at a small size with the bitmap face, then scales it onto
// dst with nearest-neighbor so the pixel font stays crisp at card size.
func blitText(dst *image.RGBA, s string, face *basicfont.Face, ink color.Color, scale, x, y int) {
	if s == "" {
		return
	}
	w := font.MeasureString(face, s).Ceil()
	h := face.Height + 2
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	drawer := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	drawer.DrawString(s)

	target := image.Rect(x, y, x+w*scale, y+h*scale)
	xdraw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), xdraw.Over, nil)
}

// wrapText greedily wraps words into at most maxLines lines of maxCols runes;
// an overlong tail is ellipsized rather than overflowing the card.
func wrapText(s string, maxCols, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := ""
	truncated := false
	for _, word := range words {
		if current == "" {
			current = word
		} else if len([]rune(current))+1+len([]rune(word)) <= maxCols {
			current += " " + word
		} else {
			if len(lines) == maxLines-1 {
				truncated = true
				break
			}
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if truncated {
		last := []rune(lines[len(lines)-1])
		if len(last) > maxCols-1 {
			last = last[:maxCols-1]
		}
		lines[len(lines)-1] = strings.TrimRight(string(last), " ") + "…"
	}
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > maxCols {
			lines[i] = string(runes[:maxCols])
		}
	}
	return lines
}
