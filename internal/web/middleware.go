package web

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appearanceapp "github.com/alexisbeaulieu97/conservancy/internal/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/metrics"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// HeaderRequestID carries the correlation ID in and out of the service.
const HeaderRequestID = "X-Request-ID"

const (
	appearanceKey = "conservancy.appearance"
	fallbackKey   = "conservancy.appearance.fallback"
)

// correlationID reuses a well-formed incoming request ID or mints a new one,
// and puts it on the request context for the logger.
func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = ports.GenerateCorrelationID()
		}
		c.Request = c.Request.WithContext(ports.WithCorrelationID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func recovery(logger ports.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error(c.Request.Context(), "panic recovered",
			"panic", fmt.Sprint(recovered),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

func requestLogger(logger ports.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		m.ObserveRequest(route, c.Request.Method, status, elapsed)

		ctx := c.Request.Context()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(ctx, "request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn(ctx, "request rejected", fields...)
		case route == "/healthz" || route == "/metrics":
			logger.Debug(ctx, "request handled", fields...)
		default:
			logger.Info(ctx, "request handled", fields...)
		}
	}
}

// responseCookies adds Set-Cookie headers to a pending response.
type responseCookies struct {
	w http.ResponseWriter
}

func (r responseCookies) SetCookie(raw string) {
	r.w.Header().Add("Set-Cookie", raw)
}

// appearanceMiddleware decodes the appearance cookies and stores a fresh
// server Context for the handlers. The Context writes cookies to this
// request's response only.
func appearanceMiddleware(factory *appearanceapp.Factory, publisher ports.EventPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		values := cookie.ValuesFromRequest(c.Request)
		fallbacks := cookie.Fallbacks(values)
		for _, f := range fallbacks {
			_ = publisher.Publish(c.Request.Context(), events.CookieFallback(f))
		}

		actx := factory.Context(cookie.FromValues(values),
			appearanceapp.WithCookieWriter(responseCookies{w: c.Writer}),
		)
		defer actx.Close()

		c.Set(appearanceKey, actx)
		c.Set(fallbackKey, len(fallbacks) > 0)
		c.Next()
	}
}

// Appearance returns the request's appearance Context, or nil outside the
// appearance middleware.
func Appearance(c *gin.Context) *appearanceapp.Context {
	v, ok := c.Get(appearanceKey)
	if !ok {
		return nil
	}
	actx, _ := v.(*appearanceapp.Context)
	return actx
}
