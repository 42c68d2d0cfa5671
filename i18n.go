package quillkit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

// localeBundle is one locale's UI strings plus date formatting rules,
// decoded from a TOML file.
type localeBundle struct {
	DateLayout string            `toml:"date_layout"`
	MonthNames []string          `toml:"month_names"`
	Strings    map[string]string `toml:"strings"`
}

// Translator resolves a request locale and looks up translated UI strings.
// Built-in bundles are embedded; a site can override or add locales by
// shipping TOML files in its own locales directory.
type Translator struct {
	locales  []string
	bundles  map[string]localeBundle
	matcher  language.Matcher
	fallback string
}

// NewTranslator loads the embedded bundles, layers overrideDir on top when
// non-empty, and pins defaultLocale as the fallback. The default locale is
// listed first so the language matcher prefers it on ties.
func NewTranslator(defaultLocale, overrideDir string) (*Translator, error) {
	bundles := make(map[string]localeBundle)
	if err := loadBundles(localeFS, "locales", bundles); err != nil {
		return nil, fmt.Errorf("quillkit: embedded locales: %w", err)
	}
	if overrideDir != "" {
		if _, err := os.Stat(overrideDir); err == nil {
			if err := loadBundles(os.DirFS(overrideDir), ".", bundles); err != nil {
				return nil, fmt.Errorf("quillkit: locales dir %s: %w", overrideDir, err)
			}
		}
	}
	if _, ok := bundles[defaultLocale]; !ok {
		return nil, fmt.Errorf("quillkit: no bundle for default locale %q", defaultLocale)
	}

	locales := []string{defaultLocale}
	for name := range bundles {
		if name != defaultLocale {
			locales = append(locales, name)
		}
	}
	tags := make([]language.Tag, len(locales))
	for i, name := range locales {
		tags[i] = language.Make(name)
	}
	return &Translator{
		locales:  locales,
		bundles:  bundles,
		matcher:  language.NewMatcher(tags),
		fallback: defaultLocale,
	}, nil
}

func loadBundles(fsys fs.FS, root string, into map[string]localeBundle) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, filepath.Join(root, e.Name()))
		if err != nil {
			return err
		}
		var bundle localeBundle
		if err := toml.Unmarshal(raw, &bundle); err != nil {
			return fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), ".toml")
		if existing, ok := into[name]; ok {
			// Overrides merge string-by-string over the embedded bundle.
			if bundle.DateLayout == "" {
				bundle.DateLayout = existing.DateLayout
			}
			if bundle.MonthNames == nil {
				bundle.MonthNames = existing.MonthNames
			}
			for k, v := range existing.Strings {
				if _, ok := bundle.Strings[k]; !ok {
					if bundle.Strings == nil {
						bundle.Strings = make(map[string]string)
					}
					bundle.Strings[k] = v
				}
			}
		}
		into[name] = bundle
	}
	return nil
}

// Localize picks the locale for a request: an explicit ?lang= parameter wins,
// then Accept-Language content negotiation, then the site default.
func (t *Translator) Localize(c echo.Context) *Localizer {
	prefs := make([]string, 0, 2)
	if lang := c.QueryParam("lang"); lang != "" {
		prefs = append(prefs, lang)
	}
	if accept := c.Request().Header.Get("Accept-Language"); accept != "" {
		prefs = append(prefs, accept)
	}
	locale := t.fallback
	if len(prefs) > 0 {
		// MatchStrings falls back to index 0, which is the default locale.
		_, idx := language.MatchStrings(t.matcher, prefs...)
		locale = t.locales[idx]
	}
	return &Localizer{Lang: locale, tr: t}
}

// Localizer is a Translator bound to one resolved locale, handed to views.
type Localizer struct {
	Lang string
	tr   *Translator
}

// T returns the translated string for key, falling back to the default
// locale and finally to the key itself so a missing translation is visible
// instead of blank.
func (l *Localizer) T(key string) string {
	if s, ok := l.tr.bundles[l.Lang].Strings[key]; ok {
		return s
	}
	if s, ok := l.tr.bundles[l.tr.fallback].Strings[key]; ok {
		return s
	}
	return key
}

// FormatDate renders t using the locale's date layout. Go's formatter only
// knows English month names, so bundles that provide month_names get them
// substituted after formatting.
func (l *Localizer) FormatDate(t time.Time) string {
	bundle := l.tr.bundles[l.Lang]
	layout := bundle.DateLayout
	if layout == "" {
		layout = "Jan 2, 2006"
	}
	formatted := t.Format(layout)
	if len(bundle.MonthNames) == 12 {
		name := bundle.MonthNames[int(t.Month())-1]
		if strings.Contains(layout, "January") {
			formatted = strings.Replace(formatted, t.Month().String(), name, 1)
		} else if strings.Contains(layout, "Jan") {
			formatted = strings.Replace(formatted, t.Month().String()[:3], name, 1)
		}
	}
	return formatted
}

// Locales returns the available locale names, default first.
func (t *Translator) Locales() []string {
	out := make([]string, len(t.locales))
	copy(out, t.locales)
	return out
}
