package appearance

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	domain "github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/dom"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/storage"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

type panicStorage struct{}

func (panicStorage) GetItem(string) (string, bool, error) { panic("SecurityError: storage is disabled") }
func (panicStorage) SetItem(string, string) error         { panic("QuotaExceededError") }

var _ ports.Storage = panicStorage{}

func TestBrowserFactoryReturnsSingleton(t *testing.T) {
	t.Parallel()

	deps, _, media, _ := browserDeps(false)
	f := NewFactory(Browser, deps)
	t.Cleanup(f.Close)

	first := f.Context(domain.DefaultState())
	second := f.Context(domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteGreen})

	require.Same(t, first, second)
	assert.Same(t, first.Theme, second.Theme)
	assert.Equal(t, domain.ThemeSystem, second.Theme.Get(), "later seeds are ignored")
	assert.Equal(t, 1, media.Listeners())
	assert.Equal(t, "browser", f.Environment().String())
}

func TestBrowserFactoryConcurrentCallsShareContext(t *testing.T) {
	t.Parallel()

	deps, _, _, _ := browserDeps(false)
	f := NewFactory(Browser, deps)
	t.Cleanup(f.Close)

	const workers = 8
	results := make([]*Context, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.Context(domain.DefaultState())
		}(i)
	}
	wg.Wait()

	for _, ctx := range results {
		assert.Same(t, results[0], ctx)
	}
}

func TestServerFactoryReturnsFreshContexts(t *testing.T) {
	t.Parallel()

	f := NewFactory(Server, Dependencies{})
	a := f.Context(domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteGreen})
	b := f.Context(domain.DefaultState())

	require.NotSame(t, a, b)
	assert.NotSame(t, a.Theme, b.Theme)
	assert.NotSame(t, a.Palette, b.Palette)

	require.NoError(t, a.Theme.Set(domain.ThemeLight))
	a.Palette.Set(domain.PaletteGreenNavy)
	assert.Equal(t, domain.DefaultState(), b.State(), "requests must not leak state")
	assert.Equal(t, "server", f.Environment().String())
}

func TestServerFactoryRoutesCookiesPerContext(t *testing.T) {
	t.Parallel()

	f := NewFactory(Server, Dependencies{})
	jarA, jarB := dom.NewDocument(), dom.NewDocument()

	a := f.Context(domain.DefaultState(), WithCookieWriter(jarA))
	b := f.Context(domain.DefaultState(), WithCookieWriter(jarB))

	a.Palette.Set(domain.PaletteGreenTerra)
	require.NoError(t, b.Theme.Set(domain.ThemeDark))

	assert.Equal(t, map[string]string{cookie.PaletteName: "green-terra"}, jarA.Cookies())
	assert.Equal(t, map[string]string{cookie.ThemeName: "dark", cookie.ResolvedThemeName: "dark"}, jarB.Cookies())
}

func TestHydratePrefersStorageOverServerState(t *testing.T) {
	t.Parallel()

	deps, doc, _, store := browserDeps(true)
	require.NoError(t, store.SetItem(ThemeStorageKey, "system"))
	require.NoError(t, store.SetItem(PaletteStorageKey, "green-terra"))

	ctx := Hydrate(domain.State{Theme: domain.ThemeLight, ResolvedTheme: domain.ResolvedLight, Palette: domain.PaletteGreen}, deps)
	t.Cleanup(ctx.Close)

	assert.Equal(t, domain.State{Theme: domain.ThemeSystem, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteGreenTerra}, ctx.State())
	assert.True(t, doc.HasClass(DarkClass))
	attr, _ := doc.Attribute(PaletteAttribute)
	assert.Equal(t, "green-terra", attr)

	v, _, _ := store.GetItem(ResolvedThemeStorageKey)
	assert.Equal(t, "dark", v)
	assert.Equal(t, map[string]string{
		cookie.ThemeName:         "system",
		cookie.ResolvedThemeName: "dark",
		cookie.PaletteName:       "green-terra",
	}, doc.Cookies())
}

func TestHydrateFallsBackOnCorruptStorage(t *testing.T) {
	t.Parallel()

	deps, doc, _, store := browserDeps(false)
	require.NoError(t, store.SetItem(ThemeStorageKey, "midnight"))
	require.NoError(t, store.SetItem(PaletteStorageKey, ""))

	ctx := Hydrate(domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteGreenNavy}, deps)
	t.Cleanup(ctx.Close)

	assert.Equal(t, domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteGreenNavy}, ctx.State())
	v, _, _ := store.GetItem(ThemeStorageKey)
	assert.Equal(t, "dark", v, "storage is re-synchronised with validated values")
	assert.True(t, doc.HasClass(DarkClass))
}

func TestHydrateRevalidatesServerFallback(t *testing.T) {
	t.Parallel()

	deps, doc, _, _ := browserDeps(false)
	ctx := Hydrate(domain.State{Theme: "bogus", Palette: "bogus"}, deps)
	t.Cleanup(ctx.Close)

	assert.Equal(t, domain.DefaultState(), ctx.State())
	_, ok := doc.Attribute(PaletteAttribute)
	assert.False(t, ok)
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	for name, backend := range map[string]ports.Storage{
		"errors": storage.Disabled{},
		"panics": panicStorage{},
	} {
		backend := backend
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := dom.NewDocument()
			deps := Dependencies{Storage: backend, Document: doc, Cookies: doc, Media: dom.NewMediaQuery(false)}

			var ctx *Context
			require.NotPanics(t, func() {
				ctx = NewFactory(Browser, deps).Context(domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteGreen})
			})
			t.Cleanup(ctx.Close)
			assert.Equal(t, domain.ThemeDark, ctx.Theme.Get())

			require.NotPanics(t, func() {
				require.NoError(t, ctx.Theme.Set(domain.ThemeLight))
				ctx.Palette.Set(domain.PaletteGreenNavy)
			})
			assert.Equal(t, domain.State{Theme: domain.ThemeLight, ResolvedTheme: domain.ResolvedLight, Palette: domain.PaletteGreenNavy}, ctx.State())
			assert.Equal(t, "green-navy", doc.Cookies()[cookie.PaletteName])
		})
	}
}
