package appearance

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	domain "github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Environment selects how a Factory vends managers.
type Environment int

const (
	// Server builds a fresh pair of managers for every call.
	Server Environment = iota
	// Browser hydrates one pair on first use and returns it from then on.
	Browser
)

func (e Environment) String() string {
	switch e {
	case Server:
		return "server"
	case Browser:
		return "browser"
	default:
		return "unknown"
	}
}

// Dependencies are the surfaces managers write to. A nil field means the
// environment does not have that surface; server renders, for instance, have
// no document and no storage.
type Dependencies struct {
	Storage  ports.Storage
	Document ports.Document
	Cookies  ports.CookieWriter
	Media    ports.ColorSchemeQuery
	Logger   ports.Logger
}

// Option adjusts the Dependencies for a single Factory.Context call.
type Option func(*Dependencies)

// WithCookieWriter routes cookie writes for one context, typically to the
// response of the request being rendered.
func WithCookieWriter(w ports.CookieWriter) Option {
	return func(d *Dependencies) {
		d.Cookies = w
	}
}

// WithLogger replaces the logger for one context.
func WithLogger(l ports.Logger) Option {
	return func(d *Dependencies) {
		d.Logger = l
	}
}

// Context is the pair of managers UI code reads and mutates.
type Context struct {
	Theme   *ThemeManager
	Palette *PaletteManager
}

// State returns a snapshot of both managers.
func (c *Context) State() domain.State {
	return domain.NewState(c.Theme.Get(), c.Theme.Resolved(), c.Palette.Get())
}

// Close releases the system preference listener.
func (c *Context) Close() {
	c.Theme.Close()
}

// Factory vends manager contexts according to its Environment.
type Factory struct {
	env  Environment
	deps Dependencies

	mu     sync.Mutex
	shared *Context
}

// NewFactory returns a Factory for env using deps as the base dependencies.
func NewFactory(env Environment, deps Dependencies) *Factory {
	return &Factory{env: env, deps: deps}
}

// Environment reports the factory's environment.
func (f *Factory) Environment() Environment {
	return f.env
}

// Context returns managers seeded from initial.
//
// On the server every call returns a new, independent Context and opts apply
// to it. In the browser the first call hydrates the shared Context and every
// later call returns that same Context, ignoring initial and opts.
func (f *Factory) Context(initial domain.State, opts ...Option) *Context {
	deps := f.deps
	for _, opt := range opts {
		opt(&deps)
	}

	if f.env != Browser {
		store := newSafeStorage(deps.Storage, deps.Logger)
		return &Context{
			Theme:   newThemeManager(initial, deps, store),
			Palette: newPaletteManager(initial, deps, store),
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shared == nil {
		f.shared = Hydrate(initial, deps)
	}
	return f.shared
}

// Close releases the shared browser Context, if one was hydrated.
func (f *Factory) Close() {
	f.mu.Lock()
	shared := f.shared
	f.mu.Unlock()
	if shared != nil {
		shared.Close()
	}
}

// Hydrate reconciles persisted client state with the server-provided state
// and applies the result, mirroring the inline bootstrap script:
//
//  1. theme and palette come from storage, falling back to fallback;
//  2. both are re-validated;
//  3. the theme is resolved against the live preference (light when unknown);
//  4. the document, storage and all three cookies are brought in line;
//  5. a single system-preference listener is registered.
func Hydrate(fallback domain.State, deps Dependencies) *Context {
	store := newSafeStorage(deps.Storage, deps.Logger)

	theme := fallback.Theme
	if raw, ok := store.get(ThemeStorageKey); ok && domain.ValidateTheme(raw) == domain.ThemeMode(raw) {
		theme = domain.ThemeMode(raw)
	}
	palette := fallback.Palette
	if raw, ok := store.get(PaletteStorageKey); ok && domain.ValidatePalette(raw) == domain.PaletteMode(raw) {
		palette = domain.PaletteMode(raw)
	}
	theme = domain.ValidateTheme(string(theme))
	palette = domain.ValidatePalette(string(palette))

	prefersDark := false
	if deps.Media != nil {
		if dark, ok := deps.Media.PrefersDark(); ok {
			prefersDark = dark
		}
	}
	state := domain.State{
		Theme:         theme,
		ResolvedTheme: domain.Resolve(theme, prefersDark),
		Palette:       palette,
	}

	applyTheme(deps.Document, state.ResolvedTheme)
	applyPalette(deps.Document, state.Palette)

	store.set(ResolvedThemeStorageKey, string(state.ResolvedTheme))
	store.set(ThemeStorageKey, string(state.Theme))
	store.set(PaletteStorageKey, string(state.Palette))

	writeCookie(deps.Cookies, cookie.ThemeName, string(state.Theme))
	writeCookie(deps.Cookies, cookie.ResolvedThemeName, string(state.ResolvedTheme))
	writeCookie(deps.Cookies, cookie.PaletteName, string(state.Palette))

	if deps.Logger != nil {
		deps.Logger.Debug(context.Background(), "appearance hydrated",
			"component", "appearance_factory",
			"theme", string(state.Theme),
			"resolved_theme", string(state.ResolvedTheme),
			"palette", string(state.Palette),
		)
	}

	ctx := &Context{
		Theme:   newThemeManager(state, deps, store),
		Palette: newPaletteManager(state, deps, store),
	}
	ctx.Theme.WatchSystem()
	return ctx
}
