package appearance

import (
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	domain "github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Document surface written by the managers and the bootstrap script.
const (
	DarkClass           = "dark"
	ColorSchemeProperty = "color-scheme"
	PaletteAttribute    = "data-palette"
)

func applyTheme(doc ports.Document, resolved domain.ResolvedTheme) {
	if doc == nil {
		return
	}
	doc.ToggleClass(DarkClass, resolved == domain.ResolvedDark)
	doc.SetStyleProperty(ColorSchemeProperty, string(resolved))
}

func applyPalette(doc ports.Document, palette domain.PaletteMode) {
	if doc == nil {
		return
	}
	if palette.IsDefault() {
		doc.RemoveAttribute(PaletteAttribute)
		return
	}
	doc.SetAttribute(PaletteAttribute, string(palette))
}

func writeCookie(w ports.CookieWriter, name, value string) {
	if w == nil {
		return
	}
	w.SetCookie(cookie.Build(name, value))
}
