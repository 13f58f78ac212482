package appearance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	domain "github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/dom"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/storage"
)

type themeCall struct {
	mode     domain.ThemeMode
	resolved domain.ResolvedTheme
}

func browserDeps(dark bool) (Dependencies, *dom.Document, *dom.MediaQuery, *storage.Memory) {
	doc := dom.NewDocument()
	media := dom.NewMediaQuery(dark)
	store := storage.NewMemory()
	return Dependencies{Storage: store, Document: doc, Cookies: doc, Media: media}, doc, media, store
}

func TestThemeSetAppliesEverywhere(t *testing.T) {
	t.Parallel()

	deps, doc, _, store := browserDeps(false)
	m := NewThemeManager(domain.DefaultState(), deps)

	require.NoError(t, m.Set(domain.ThemeDark))

	assert.Equal(t, domain.ThemeDark, m.Get())
	assert.Equal(t, domain.ResolvedDark, m.Resolved())
	assert.True(t, doc.HasClass(DarkClass))
	assert.Equal(t, "dark", doc.StyleProperty(ColorSchemeProperty))

	v, ok, _ := store.GetItem(ThemeStorageKey)
	require.True(t, ok)
	assert.Equal(t, "dark", v)
	v, _, _ = store.GetItem(ResolvedThemeStorageKey)
	assert.Equal(t, "dark", v)

	jar := doc.Cookies()
	assert.Equal(t, "dark", jar[cookie.ThemeName])
	assert.Equal(t, "dark", jar[cookie.ResolvedThemeName])
	assert.NotContains(t, jar, cookie.PaletteName)

	require.NoError(t, m.Set(domain.ThemeLight))
	assert.False(t, doc.HasClass(DarkClass))
	assert.Equal(t, "light", doc.StyleProperty(ColorSchemeProperty))
}

func TestThemeSetSystemFollowsMedia(t *testing.T) {
	t.Parallel()

	deps, doc, _, _ := browserDeps(true)
	m := NewThemeManager(domain.State{Theme: domain.ThemeLight, ResolvedTheme: domain.ResolvedLight, Palette: domain.PaletteOlive}, deps)

	require.NoError(t, m.Set(domain.ThemeSystem))
	assert.Equal(t, domain.ResolvedDark, m.Resolved())
	assert.True(t, doc.HasClass(DarkClass))
}

func TestThemeSetRejectsInvalid(t *testing.T) {
	t.Parallel()

	deps, doc, _, _ := browserDeps(false)
	m := NewThemeManager(domain.DefaultState(), deps)
	called := false
	m.Subscribe(func(domain.ThemeMode, domain.ResolvedTheme) { called = true })

	err := m.Set("sepia")
	require.ErrorIs(t, err, ErrInvalidTheme)
	assert.Equal(t, domain.ThemeSystem, m.Get())
	assert.False(t, called)
	assert.Zero(t, doc.CookieWrites())
}

func TestThemeSubscribersNotifiedOnceEach(t *testing.T) {
	t.Parallel()

	deps, _, _, _ := browserDeps(false)
	m := NewThemeManager(domain.DefaultState(), deps)

	var first, second []themeCall
	unsubscribeFirst := m.Subscribe(func(mode domain.ThemeMode, resolved domain.ResolvedTheme) {
		first = append(first, themeCall{mode, resolved})
	})
	m.Subscribe(func(mode domain.ThemeMode, resolved domain.ResolvedTheme) {
		second = append(second, themeCall{mode, resolved})
	})
	assert.Equal(t, 2, m.subs.count())

	require.NoError(t, m.Set(domain.ThemeDark))
	assert.Equal(t, []themeCall{{domain.ThemeDark, domain.ResolvedDark}}, first)
	assert.Equal(t, []themeCall{{domain.ThemeDark, domain.ResolvedDark}}, second)

	unsubscribeFirst()
	unsubscribeFirst()
	require.NoError(t, m.Set(domain.ThemeLight))
	assert.Len(t, first, 1)
	assert.Equal(t, themeCall{domain.ThemeLight, domain.ResolvedLight}, second[1])
	assert.Equal(t, 1, m.subs.count())
}

func TestThemeSubscriberMayReadManager(t *testing.T) {
	t.Parallel()

	deps, _, _, _ := browserDeps(false)
	m := NewThemeManager(domain.DefaultState(), deps)

	var seen domain.ThemeMode
	m.Subscribe(func(domain.ThemeMode, domain.ResolvedTheme) {
		seen = m.Get()
	})
	require.NoError(t, m.Set(domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, seen)
}

func TestWatchSystemRespectsCurrentMode(t *testing.T) {
	t.Parallel()

	deps, doc, media, _ := browserDeps(false)
	m := NewThemeManager(domain.DefaultState(), deps)
	m.WatchSystem()
	m.WatchSystem()
	t.Cleanup(m.Close)
	assert.Equal(t, 1, media.Listeners())

	var calls []themeCall
	m.Subscribe(func(mode domain.ThemeMode, resolved domain.ResolvedTheme) {
		calls = append(calls, themeCall{mode, resolved})
	})

	media.Set(true)
	assert.Equal(t, domain.ResolvedDark, m.Resolved())
	assert.True(t, doc.HasClass(DarkClass))
	assert.Equal(t, "dark", doc.Cookies()[cookie.ResolvedThemeName])
	assert.NotContains(t, doc.Cookies(), cookie.ThemeName, "only the resolved cookie is rewritten")

	// After switching to an explicit theme the listener must stay inert.
	require.NoError(t, m.Set(domain.ThemeLight))
	writes := doc.CookieWrites()
	media.Set(false)
	media.Set(true)
	assert.Equal(t, domain.ResolvedLight, m.Resolved())
	assert.False(t, doc.HasClass(DarkClass))
	assert.Equal(t, writes, doc.CookieWrites())
	assert.Len(t, calls, 2)

	m.Close()
	assert.Zero(t, media.Listeners())
}

func TestServerThemeKeepsCookieResolvedWithoutMedia(t *testing.T) {
	t.Parallel()

	doc := dom.NewDocument()
	m := NewThemeManager(domain.State{Theme: domain.ThemeSystem, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteOlive}, Dependencies{Cookies: doc})

	require.NoError(t, m.Set(domain.ThemeSystem))
	assert.Equal(t, domain.ResolvedDark, m.Resolved())

	require.NoError(t, m.Set(domain.ThemeLight))
	require.NoError(t, m.Set(domain.ThemeSystem))
	assert.Equal(t, domain.ResolvedLight, m.Resolved(), "unknown preference falls back to light")
}

func TestUnsupportedMediaResolvesLight(t *testing.T) {
	t.Parallel()

	doc := dom.NewDocument()
	m := NewThemeManager(domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedDark, Palette: domain.PaletteOlive},
		Dependencies{Document: doc, Media: dom.UnsupportedMediaQuery()})
	m.WatchSystem()
	defer m.Close()

	require.NoError(t, m.Set(domain.ThemeSystem))
	assert.Equal(t, domain.ResolvedLight, m.Resolved())
	assert.Equal(t, "light", doc.StyleProperty(ColorSchemeProperty))
}

func TestNewThemeManagerNormalizesInitial(t *testing.T) {
	t.Parallel()

	m := NewThemeManager(domain.State{Theme: domain.ThemeDark, ResolvedTheme: domain.ResolvedLight}, Dependencies{})
	assert.Equal(t, domain.ResolvedDark, m.Resolved())

	m = NewThemeManager(domain.State{Theme: "???"}, Dependencies{})
	assert.Equal(t, domain.ThemeSystem, m.Get())
	assert.Equal(t, domain.ResolvedLight, m.Resolved())
}
