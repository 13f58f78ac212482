package web

import (
	"embed"
	"html/template"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

//go:embed templates/page.html
var templateFS embed.FS

const pageTemplateName = "page.html"

var pageTemplate = template.Must(template.New(pageTemplateName).ParseFS(templateFS, "templates/"+pageTemplateName))

type paletteOption struct {
	Name   string
	Active bool
}

// pageData pre-computes everything the root element needs so the first paint
// already matches the cookies.
type pageData struct {
	SiteName    string
	State       appearance.State
	Dark        bool
	Palette     string
	ColorScheme string
	Script      template.JS
	Palettes    []paletteOption
}

func newPageData(siteName string, state appearance.State, script string) pageData {
	data := pageData{
		SiteName:    siteName,
		State:       state,
		Dark:        state.IsDark(),
		ColorScheme: string(state.ResolvedTheme),
		// The script is generated from validated enumerations only.
		Script: template.JS(script),
	}
	if !state.Palette.IsDefault() {
		data.Palette = string(state.Palette)
	}
	for _, p := range appearance.Palettes() {
		data.Palettes = append(data.Palettes, paletteOption{Name: string(p), Active: p == state.Palette})
	}
	return data
}

func contentSecurityPolicy(scriptHash string) string {
	return "default-src 'self'; script-src 'self' " + scriptHash +
		"; style-src 'self' 'unsafe-inline'; img-src 'self' data:; base-uri 'self'; frame-ancestors 'none'"
}
