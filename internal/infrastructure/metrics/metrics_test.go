package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
)

func TestObserveFallbacks(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveFallbacks(cookie.Fallbacks(cookie.Values{}))
	m.ObserveFallbacks(cookie.Fallbacks(cookie.Values{Theme: "broken", Palette: "green"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CookieFallbacksTotal.WithLabelValues(cookie.ThemeName, cookie.ReasonMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CookieFallbacksTotal.WithLabelValues(cookie.ThemeName, cookie.ReasonInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CookieFallbacksTotal.WithLabelValues(cookie.ResolvedThemeName, cookie.ReasonMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CookieFallbacksTotal.WithLabelValues(cookie.PaletteName, cookie.ReasonMissing)))
}

func TestObserveRequestAndUpdate(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("/", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)
	m.ObserveUpdate("theme", "dark")
	m.ObserveRevalidation("accepted")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", http.MethodGet, "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PreferenceUpdatesTotal.WithLabelValues("theme", "dark")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RevalidationsTotal.WithLabelValues("accepted")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFallbacks(cookie.Fallbacks(cookie.Values{}))
		m.ObserveUpdate("palette", "green")
		m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
		m.ObserveRevalidation("disabled")
	})
}

func TestHandlerExposesInstruments(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveUpdate("palette", "green-navy")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `conservancy_appearance_preference_updates_total{field="palette",value="green-navy"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestInstancesDoNotShareRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.ObserveRevalidation("accepted")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RevalidationsTotal.WithLabelValues("accepted")))
	assert.NotSame(t, a.Registry(), b.Registry())
}
