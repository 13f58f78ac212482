// Package bootstrap renders the inline script that applies the stored theme
// and palette before first paint.
//
// The script runs synchronously at the top of <head>, makes no network calls
// and tolerates missing storage and media-query support. The server state is
// only its last-resort fallback: local storage wins when it holds valid values.
package bootstrap

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"text/template"

	appearanceapp "github.com/alexisbeaulieu97/conservancy/internal/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

const scriptSource = `(function () {
  var THEME_KEY = {{js .ThemeStorageKey}};
  var RESOLVED_KEY = {{js .ResolvedStorageKey}};
  var PALETTE_KEY = {{js .PaletteStorageKey}};
  var THEME_COOKIE = {{js .ThemeCookie}};
  var RESOLVED_COOKIE = {{js .ResolvedCookie}};
  var PALETTE_COOKIE = {{js .PaletteCookie}};
  var THEMES = {{js .Themes}};
  var PALETTES = {{js .Palettes}};
  var DEFAULT_THEME = {{js .DefaultTheme}};
  var DEFAULT_PALETTE = {{js .DefaultPalette}};
  var SERVER_THEME = {{js .Fallback.Theme}};
  var SERVER_PALETTE = {{js .Fallback.Palette}};
  var MAX_AGE = {{.MaxAge}};
  var root = document.documentElement;

  function read(key) {
    try { return window.localStorage.getItem(key); } catch (e) { return null; }
  }
  function write(key, value) {
    try { window.localStorage.setItem(key, value); } catch (e) {}
  }
  function isTheme(value) { return THEMES.indexOf(value) !== -1; }
  function isPalette(value) { return PALETTES.indexOf(value) !== -1; }
  function setCookie(name, value) {
    document.cookie = name + "=" + encodeURIComponent(value) + "; Path=/; Max-Age=" + MAX_AGE + "; SameSite=Lax";
  }
  function query() {
    try { return window.matchMedia ? window.matchMedia("(prefers-color-scheme: dark)") : null; } catch (e) { return null; }
  }
  function applyTheme(resolved) {
    if (resolved === {{js .Dark}}) {
      root.classList.add({{js .DarkClass}});
    } else {
      root.classList.remove({{js .DarkClass}});
    }
    root.style.setProperty({{js .ColorSchemeProperty}}, resolved);
  }

  var theme = read(THEME_KEY);
  if (!isTheme(theme)) theme = SERVER_THEME;
  var palette = read(PALETTE_KEY);
  if (!isPalette(palette)) palette = SERVER_PALETTE;
  if (!isTheme(theme)) theme = DEFAULT_THEME;
  if (!isPalette(palette)) palette = DEFAULT_PALETTE;

  var mql = query();
  var prefersDark = !!(mql && mql.matches);
  var resolved = theme === {{js .System}} ? (prefersDark ? {{js .Dark}} : {{js .Light}}) : theme;

  applyTheme(resolved);
  if (palette === DEFAULT_PALETTE) {
    root.removeAttribute({{js .PaletteAttribute}});
  } else {
    root.setAttribute({{js .PaletteAttribute}}, palette);
  }

  write(RESOLVED_KEY, resolved);
  write(THEME_KEY, theme);
  write(PALETTE_KEY, palette);

  setCookie(THEME_COOKIE, theme);
  setCookie(RESOLVED_COOKIE, resolved);
  setCookie(PALETTE_COOKIE, palette);

  if (mql) {
    var onChange = function (event) {
      var current = read(THEME_KEY);
      if (!isTheme(current)) current = theme;
      if (current !== {{js .System}}) return;
      var next = event.matches ? {{js .Dark}} : {{js .Light}};
      applyTheme(next);
      setCookie(RESOLVED_COOKIE, next);
    };
    try {
      if (mql.addEventListener) {
        mql.addEventListener("change", onChange);
      } else if (mql.addListener) {
        mql.addListener(onChange);
      }
    } catch (e) {}
  }
})();`

var scriptTemplate = template.Must(template.New("bootstrap").Funcs(template.FuncMap{
	"js": jsLiteral,
}).Parse(scriptSource))

type scriptData struct {
	ThemeStorageKey     string
	ResolvedStorageKey  string
	PaletteStorageKey   string
	ThemeCookie         string
	ResolvedCookie      string
	PaletteCookie       string
	Themes              []appearance.ThemeMode
	Palettes            []appearance.PaletteMode
	DefaultTheme        appearance.ThemeMode
	DefaultPalette      appearance.PaletteMode
	Fallback            appearance.State
	MaxAge              int
	System              appearance.ThemeMode
	Dark                appearance.ResolvedTheme
	Light               appearance.ResolvedTheme
	DarkClass           string
	ColorSchemeProperty string
	PaletteAttribute    string
}

// Script returns the bootstrap script for a page whose server-side state is
// fallback. The fallback is re-validated first, so the output is safe to
// inline for any input.
func Script(fallback appearance.State) string {
	data := scriptData{
		ThemeStorageKey:     appearanceapp.ThemeStorageKey,
		ResolvedStorageKey:  appearanceapp.ResolvedThemeStorageKey,
		PaletteStorageKey:   appearanceapp.PaletteStorageKey,
		ThemeCookie:         cookie.ThemeName,
		ResolvedCookie:      cookie.ResolvedThemeName,
		PaletteCookie:       cookie.PaletteName,
		Themes:              appearance.Themes(),
		Palettes:            appearance.Palettes(),
		DefaultTheme:        appearance.DefaultTheme,
		DefaultPalette:      appearance.DefaultPalette,
		Fallback:            appearance.NewState(fallback.Theme, fallback.ResolvedTheme, fallback.Palette),
		MaxAge:              cookie.MaxAge,
		System:              appearance.ThemeSystem,
		Dark:                appearance.ResolvedDark,
		Light:               appearance.ResolvedLight,
		DarkClass:           appearanceapp.DarkClass,
		ColorSchemeProperty: appearanceapp.ColorSchemeProperty,
		PaletteAttribute:    appearanceapp.PaletteAttribute,
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		// Only reachable if the template itself is broken.
		panic(fmt.Sprintf("bootstrap: render script: %v", err))
	}
	return buf.String()
}

// Hash returns the Content-Security-Policy source expression that allows
// exactly this inline script.
func Hash(script string) string {
	sum := sha256.Sum256([]byte(script))
	return "'sha256-" + base64.StdEncoding.EncodeToString(sum[:]) + "'"
}

// jsLiteral encodes v as a JavaScript literal. encoding/json escapes <, > and
// &, so the result cannot close the surrounding <script> element.
func jsLiteral(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
