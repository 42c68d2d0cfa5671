package quillkit

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := NewTranslator("en", "")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	return tr
}

func localizeRequest(tr *Translator, target, acceptLanguage string) *Localizer {
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	return tr.Localize(e.NewContext(req, httptest.NewRecorder()))
}

func TestLocalizeQueryParamWins(t *testing.T) {
	tr := newTestTranslator(t)
	loc := localizeRequest(tr, "/?lang=de", "th")
	if loc.Lang != "de" {
		t.Errorf("Lang = %q, want de", loc.Lang)
	}
}

func TestLocalizeAcceptLanguage(t *testing.T) {
	tr := newTestTranslator(t)
	loc := localizeRequest(tr, "/", "th-TH,th;q=0.9,en;q=0.5")
	if loc.Lang != "th" {
		t.Errorf("Lang = %q, want th", loc.Lang)
	}
}

func TestLocalizeFallsBackToDefault(t *testing.T) {
	tr := newTestTranslator(t)
	loc := localizeRequest(tr, "/", "")
	if loc.Lang != "en" {
		t.Errorf("Lang = %q, want en", loc.Lang)
	}
}

func TestTranslationFallbackChain(t *testing.T) {
	tr := newTestTranslator(t)
	de := &Localizer{Lang: "de", tr: tr}

	if got := de.T("nav.home"); got != "Startseite" {
		t.Errorf("T(nav.home) = %q", got)
	}
	// A key absent from every bundle comes back verbatim.
	if got := de.T("no.such.key"); got != "no.such.key" {
		t.Errorf("T(no.such.key) = %q", got)
	}
}

func TestFormatDateGermanMonths(t *testing.T) {
	tr := newTestTranslator(t)
	de := &Localizer{Lang: "de", tr: tr}

	got := de.FormatDate(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	if got != "5. März 2026" {
		t.Errorf("FormatDate = %q, want %q", got, "5. März 2026")
	}
	// Months whose German name extends the English one must not double up.
	got = de.FormatDate(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	if got != "1. Januar 2026" {
		t.Errorf("FormatDate = %q, want %q", got, "1. Januar 2026")
	}
}

func TestFormatDateEnglishDefault(t *testing.T) {
	tr := newTestTranslator(t)
	en := &Localizer{Lang: "en", tr: tr}

	got := en.FormatDate(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	if got != "Mar 5, 2026" {
		t.Errorf("FormatDate = %q", got)
	}
}

func TestTranslatorOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := `
[strings]
"nav.home" = "Casa"
`
	if err := os.WriteFile(filepath.Join(dir, "en.toml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	tr, err := NewTranslator("en", dir)
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	en := &Localizer{Lang: "en", tr: tr}
	if got := en.T("nav.home"); got != "Casa" {
		t.Errorf("override T(nav.home) = %q", got)
	}
	// Strings not touched by the override survive from the embedded bundle.
	if got := en.T("nav.search"); got != "Search" {
		t.Errorf("merged T(nav.search) = %q", got)
	}
	if got := en.FormatDate(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)); got != "Mar 5, 2026" {
		t.Errorf("merged FormatDate = %q", got)
	}
}

func TestTranslatorUnknownDefaultLocale(t *testing.T) {
	if _, err := NewTranslator("xx", ""); err == nil {
		t.Error("expected error for locale with no bundle")
	}
}

func TestLocalesDefaultFirst(t *testing.T) {
	tr, err := NewTranslator("de", "")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	locales := tr.Locales()
	if len(locales) == 0 || locales[0] != "de" {
		t.Errorf("Locales() = %v, want de first", locales)
	}
}
