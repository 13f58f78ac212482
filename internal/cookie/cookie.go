// Package cookie converts between appearance cookies and validated state.
//
// Malformed cookies left behind by older clients must never break a render, so
// every unrecognised value is treated exactly like a missing one.
package cookie

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

// Cookie names shared by the server, the bootstrap script and the runtime managers.
const (
	ThemeName         = "theme-preference"
	ResolvedThemeName = "resolved-theme"
	PaletteName       = "palette-preference"
)

// MaxAge is one year in seconds.
const MaxAge = 31536000

// Values holds raw cookie values. An empty string means the cookie is absent.
type Values struct {
	Theme         string
	ResolvedTheme string
	Palette       string
}

// FromValues decodes raw cookie values into a State that satisfies the
// resolved-theme invariant. Each field falls back to its default on its own.
func FromValues(v Values) appearance.State {
	theme := appearance.ValidateTheme(v.Theme)

	palette := appearance.DefaultPalette
	if v.Palette != "" {
		palette = appearance.ValidatePalette(v.Palette)
	}

	resolved := appearance.DefaultResolvedTheme
	if theme == appearance.ThemeSystem {
		if r, ok := appearance.ValidateResolvedTheme(v.ResolvedTheme); ok {
			resolved = r
		}
	} else {
		resolved = appearance.ResolvedTheme(theme)
	}

	return appearance.State{Theme: theme, ResolvedTheme: resolved, Palette: palette}
}

// Build formats a Set-Cookie header value for name with a percent-encoded value.
func Build(name, value string) string {
	c := &http.Cookie{
		Name:     name,
		Value:    encode(value),
		Path:     "/",
		MaxAge:   MaxAge,
		SameSite: http.SameSiteLaxMode,
	}
	return c.String()
}

// Headers returns the three Set-Cookie values describing state.
func Headers(state appearance.State) []string {
	return []string{
		Build(ThemeName, string(state.Theme)),
		Build(ResolvedThemeName, string(state.ResolvedTheme)),
		Build(PaletteName, string(state.Palette)),
	}
}

// Write appends the three appearance cookies to the response headers.
func Write(w http.ResponseWriter, state appearance.State) {
	for _, header := range Headers(state) {
		w.Header().Add("Set-Cookie", header)
	}
}

// ValuesFromRequest reads the appearance cookies from r. Values that cannot be
// percent-decoded are reported as absent.
func ValuesFromRequest(r *http.Request) Values {
	return Values{
		Theme:         requestValue(r, ThemeName),
		ResolvedTheme: requestValue(r, ResolvedThemeName),
		Palette:       requestValue(r, PaletteName),
	}
}

// FromRequest is FromValues(ValuesFromRequest(r)).
func FromRequest(r *http.Request) appearance.State {
	return FromValues(ValuesFromRequest(r))
}

// Parse extracts the decoded name and value from a Set-Cookie header value
// such as one produced by Build.
func Parse(setCookie string) (name, value string, ok bool) {
	c, err := http.ParseSetCookie(setCookie)
	if err != nil {
		return "", "", false
	}
	decoded, ok := decode(c.Value)
	if !ok {
		return "", "", false
	}
	return c.Name, decoded, true
}

// ValuesFromMap collects appearance values from a name to value map such as a
// cookie jar snapshot.
func ValuesFromMap(m map[string]string) Values {
	return Values{
		Theme:         m[ThemeName],
		ResolvedTheme: m[ResolvedThemeName],
		Palette:       m[PaletteName],
	}
}

func requestValue(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, ok := decode(c.Value)
	if !ok {
		return ""
	}
	return v
}

// encode matches JavaScript's encodeURIComponent for the characters that can
// appear in appearance values.
func encode(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

func decode(value string) (string, bool) {
	v, err := url.PathUnescape(value)
	if err != nil {
		return "", false
	}
	return v, true
}

// Reasons a cookie value was replaced by its default.
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
)

// Fallback names a cookie whose value FromValues ignored.
type Fallback struct {
	Cookie string
	Reason string
}

// Fallbacks reports which cookies in v FromValues would replace with a
// default. The resolved-theme cookie only counts when the theme is system,
// since explicit themes never read it.
func Fallbacks(v Values) []Fallback {
	var out []Fallback

	classify := func(name, raw string, valid bool) {
		switch {
		case raw == "":
			out = append(out, Fallback{Cookie: name, Reason: ReasonMissing})
		case !valid:
			out = append(out, Fallback{Cookie: name, Reason: ReasonInvalid})
		}
	}

	theme := appearance.ValidateTheme(v.Theme)
	classify(ThemeName, v.Theme, string(theme) == v.Theme)
	if theme == appearance.ThemeSystem {
		_, ok := appearance.ValidateResolvedTheme(v.ResolvedTheme)
		classify(ResolvedThemeName, v.ResolvedTheme, ok)
	}
	classify(PaletteName, v.Palette, string(appearance.ValidatePalette(v.Palette)) == v.Palette)

	return out
}
