package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	logginginfra "github.com/alexisbeaulieu97/conservancy/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

func newJSONLogger(t *testing.T, buf *bytes.Buffer) ports.Logger {
	t.Helper()
	logger, err := logginginfra.New(logginginfra.Options{
		Writer:    buf,
		Level:     "debug",
		Layer:     "test",
		Component: "publisher",
	})
	require.NoError(t, err)
	return logger
}

func decodeFirst(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.SplitN(strings.TrimSpace(buf.String()), "\n", 2)[0]
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	return entry
}

func TestLoggingPublisherIncludesCorrelationID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	publisher := NewLoggingPublisher(newJSONLogger(t, buf))

	ctx := ports.WithCorrelationID(context.Background(), "abc-123")
	err := publisher.Publish(ctx, ThemeChanged(appearance.ThemeDark, appearance.ResolvedDark, SourceAPI))
	require.NoError(t, err)

	entry := decodeFirst(t, buf)
	assert.Equal(t, "domain event", entry["message"])
	assert.Equal(t, ports.EventThemeChanged, entry["event_type"])
	assert.Equal(t, "abc-123", entry["correlation_id"])
	assert.Equal(t, "dark", entry["theme"])
	assert.Equal(t, "dark", entry["resolved_theme"])
	assert.Equal(t, SourceAPI, entry["source"])
}

func TestLoggingPublisherInvokesSubscribersInOrder(t *testing.T) {
	t.Parallel()

	publisher := NewLoggingPublisher(nil)

	var calls []string
	for _, name := range []string{"first", "second"} {
		name := name
		_, err := publisher.Subscribe(ports.EventPaletteChanged, func(ctx context.Context, event ports.DomainEvent) error {
			calls = append(calls, name+":"+event.(Event).String("palette"))
			return nil
		})
		require.NoError(t, err)
	}
	_, err := publisher.Subscribe(ports.EventThemeChanged, func(context.Context, ports.DomainEvent) error {
		calls = append(calls, "theme")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), PaletteChanged(appearance.PaletteGreenNavy, SourcePreview)))
	assert.Equal(t, []string{"first:green-navy", "second:green-navy"}, calls)
}

func TestLoggingPublisherUnsubscribe(t *testing.T) {
	t.Parallel()

	publisher := NewLoggingPublisher(nil)

	count := 0
	sub, err := publisher.Subscribe(ports.EventCookieFallback, func(context.Context, ports.DomainEvent) error {
		count++
		return nil
	})
	require.NoError(t, err)

	event := CookieFallback(cookie.Fallback{Cookie: cookie.ThemeName, Reason: cookie.ReasonInvalid})
	require.NoError(t, publisher.Publish(context.Background(), event))
	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, publisher.Publish(context.Background(), event))

	assert.Equal(t, 1, count)
}

func TestLoggingPublisherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	publisher := NewLoggingPublisher(newJSONLogger(t, buf))

	delivered := false
	_, err := publisher.Subscribe(ports.EventCacheRevalidated, func(context.Context, ports.DomainEvent) error {
		return errors.New("boom")
	})
	require.NoError(t, err)
	_, err = publisher.Subscribe(ports.EventCacheRevalidated, func(context.Context, ports.DomainEvent) error {
		delivered = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), CacheRevalidated("accepted", []string{"all"})))
	assert.True(t, delivered)
	assert.Contains(t, buf.String(), "event handler failed")
}

func TestNilPublisherAndHandlerAreSafe(t *testing.T) {
	t.Parallel()

	var publisher *LoggingPublisher
	require.NoError(t, publisher.Publish(context.Background(), ThemeChanged(appearance.ThemeLight, appearance.ResolvedLight, SourceAPI)))

	sub, err := NewLoggingPublisher(nil).Subscribe(ports.EventThemeChanged, nil)
	require.NoError(t, err)
	sub.Unsubscribe()
}

func TestEventConstructors(t *testing.T) {
	t.Parallel()

	revalidated := CacheRevalidated("unauthorized", nil)
	assert.Equal(t, ports.EventCacheRevalidated, revalidated.EventType())
	assert.Equal(t, map[string]interface{}{"result": "unauthorized"}, revalidated.Payload())

	fallback := CookieFallback(cookie.Fallback{Cookie: cookie.PaletteName, Reason: cookie.ReasonMissing})
	assert.Equal(t, cookie.PaletteName, fallback.String("cookie"))
	assert.Equal(t, cookie.ReasonMissing, fallback.String("reason"))
	assert.Empty(t, fallback.String("absent"))
}
