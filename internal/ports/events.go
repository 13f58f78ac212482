package ports

import "context"

const (
	// EventThemeChanged is emitted after a theme preference is applied.
	EventThemeChanged = "appearance.theme_changed"
	// EventPaletteChanged is emitted after a palette preference is applied.
	EventPaletteChanged = "appearance.palette_changed"
	// EventCookieFallback is emitted when a request carried a missing or
	// invalid appearance cookie.
	EventCookieFallback = "appearance.cookie_fallback"
	// EventCacheRevalidated is emitted for every revalidation attempt.
	EventCacheRevalidated = "cache.revalidated"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, metrics or UI updates.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish returns once every handler has run. Implementations
// must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Failures are returned,
// not panicked, so publishers can log them and keep delivering.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler.
type Subscription interface {
	Unsubscribe()
}
