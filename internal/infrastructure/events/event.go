package events

import (
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Event is the concrete DomainEvent used throughout the application. Its
// payload is always a flat map so publishers can log it field by field.
type Event struct {
	Type string
	Data map[string]interface{}
}

func (e Event) EventType() string { return e.Type }

func (e Event) Payload() interface{} { return e.Data }

// String returns the payload value for key as a string, or "".
func (e Event) String(key string) string {
	v, _ := e.Data[key].(string)
	return v
}

// Sources of a preference change.
const (
	SourceAPI     = "api"
	SourceSystem  = "system"
	SourcePreview = "preview"
)

// ThemeChanged describes a theme preference that was applied.
func ThemeChanged(mode appearance.ThemeMode, resolved appearance.ResolvedTheme, source string) Event {
	return Event{Type: ports.EventThemeChanged, Data: map[string]interface{}{
		"theme":          string(mode),
		"resolved_theme": string(resolved),
		"source":         source,
	}}
}

// PaletteChanged describes a palette preference that was applied.
func PaletteChanged(palette appearance.PaletteMode, source string) Event {
	return Event{Type: ports.EventPaletteChanged, Data: map[string]interface{}{
		"palette": string(palette),
		"source":  source,
	}}
}

// CookieFallback describes one cookie that was replaced by its default.
func CookieFallback(f cookie.Fallback) Event {
	return Event{Type: ports.EventCookieFallback, Data: map[string]interface{}{
		"cookie": f.Cookie,
		"reason": f.Reason,
	}}
}

// CacheRevalidated describes a revalidation attempt and its result.
func CacheRevalidated(result string, tags []string) Event {
	data := map[string]interface{}{"result": result}
	if len(tags) > 0 {
		data["tags"] = tags
	}
	return Event{Type: ports.EventCacheRevalidated, Data: data}
}
