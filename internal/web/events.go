package web

import (
	"context"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/metrics"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// recordEvents subscribes the metrics recorder to the events the handlers
// publish.
func recordEvents(publisher ports.EventPublisher, m *metrics.Metrics) error {
	handlers := map[string]ports.EventHandler{
		ports.EventThemeChanged: func(_ context.Context, e ports.DomainEvent) error {
			m.ObserveUpdate("theme", payloadString(e, "theme"))
			return nil
		},
		ports.EventPaletteChanged: func(_ context.Context, e ports.DomainEvent) error {
			m.ObserveUpdate("palette", payloadString(e, "palette"))
			return nil
		},
		ports.EventCookieFallback: func(_ context.Context, e ports.DomainEvent) error {
			m.ObserveFallbacks([]cookie.Fallback{{
				Cookie: payloadString(e, "cookie"),
				Reason: payloadString(e, "reason"),
			}})
			return nil
		},
		ports.EventCacheRevalidated: func(_ context.Context, e ports.DomainEvent) error {
			m.ObserveRevalidation(payloadString(e, "result"))
			return nil
		},
	}

	for _, eventType := range []string{
		ports.EventThemeChanged,
		ports.EventPaletteChanged,
		ports.EventCookieFallback,
		ports.EventCacheRevalidated,
	} {
		if _, err := publisher.Subscribe(eventType, handlers[eventType]); err != nil {
			return err
		}
	}
	return nil
}

func payloadString(e ports.DomainEvent, key string) string {
	data, ok := e.Payload().(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := data[key].(string)
	return v
}
