package appearance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	domain "github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// ErrInvalidTheme is returned by ThemeManager.Set for values outside the
// theme enumeration. Callers are expected to pass valid modes.
var ErrInvalidTheme = errors.New("invalid theme mode")

// ThemeSubscriber observes theme changes.
type ThemeSubscriber func(mode domain.ThemeMode, resolved domain.ResolvedTheme)

// ThemeManager is the observable theme container.
type ThemeManager struct {
	// apply serialises whole updates so memory, storage, the document and
	// the cookies always end up holding the same value. mu guards fields.
	apply    sync.Mutex
	mu       sync.Mutex
	mode     domain.ThemeMode
	resolved domain.ResolvedTheme
	watching bool
	unwatch  func()

	storage *safeStorage
	doc     ports.Document
	cookies ports.CookieWriter
	media   ports.ColorSchemeQuery
	logger  ports.Logger
	subs    subscribers[ThemeSubscriber]
}

// NewThemeManager returns a manager seeded from initial. Construction has no
// side effects; nothing is written until Set is called.
func NewThemeManager(initial domain.State, deps Dependencies) *ThemeManager {
	return newThemeManager(initial, deps, newSafeStorage(deps.Storage, deps.Logger))
}

func newThemeManager(initial domain.State, deps Dependencies, store *safeStorage) *ThemeManager {
	state := domain.NewState(initial.Theme, initial.ResolvedTheme, initial.Palette)
	return &ThemeManager{
		mode:     state.Theme,
		resolved: state.ResolvedTheme,
		storage:  store,
		doc:      deps.Document,
		cookies:  deps.Cookies,
		media:    deps.Media,
		logger:   deps.Logger,
	}
}

// Get returns the current theme mode.
func (m *ThemeManager) Get() domain.ThemeMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Resolved returns the theme currently applied.
func (m *ThemeManager) Resolved() domain.ResolvedTheme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved
}

// Set switches the theme mode. The new value is stored, applied to the
// document, written to both theme cookies and then passed to every
// subscriber, in that order. Concurrent calls apply one after the other;
// subscribers run after the update is complete.
func (m *ThemeManager) Set(mode domain.ThemeMode) error {
	if !mode.Valid() {
		m.logDebug("rejected theme", "theme", string(mode))
		return fmt.Errorf("%w: %q", ErrInvalidTheme, string(mode))
	}

	resolved := m.applyMode(mode)

	m.logDebug("theme changed", "theme", string(mode), "resolved_theme", string(resolved))
	m.notify(mode, resolved)
	return nil
}

// Subscribe registers fn for every later change and returns a function that
// removes it.
func (m *ThemeManager) Subscribe(fn ThemeSubscriber) func() {
	if fn == nil {
		return func() {}
	}
	return m.subs.add(fn)
}

// WatchSystem follows the environment's colour-scheme preference while the
// mode is system. It registers at most one listener however often it is
// called.
func (m *ThemeManager) WatchSystem() {
	m.mu.Lock()
	if m.watching || m.media == nil {
		m.mu.Unlock()
		return
	}
	m.watching = true
	m.mu.Unlock()

	remove := m.media.OnChange(m.onSystemChange)

	m.mu.Lock()
	m.unwatch = remove
	m.mu.Unlock()
}

// Close removes the system preference listener, if any.
func (m *ThemeManager) Close() {
	m.mu.Lock()
	remove := m.unwatch
	m.unwatch = nil
	m.watching = false
	m.mu.Unlock()

	if remove != nil {
		remove()
	}
}

// onSystemChange reads the mode at event time, under the same lock as Set,
// so a switch to an explicit theme is never overwritten by a late event.
func (m *ThemeManager) onSystemChange(dark bool) {
	resolved, ok := m.applySystem(dark)
	if !ok {
		return
	}

	m.logDebug("system colour scheme changed", "resolved_theme", string(resolved))
	m.notify(domain.ThemeSystem, resolved)
}

// applyMode writes mode to memory, storage, the document and both theme
// cookies as one unit.
func (m *ThemeManager) applyMode(mode domain.ThemeMode) domain.ResolvedTheme {
	m.apply.Lock()
	defer m.apply.Unlock()

	m.mu.Lock()
	resolved := m.resolveLocked(mode)
	m.mode = mode
	m.resolved = resolved
	m.mu.Unlock()

	m.storage.set(ThemeStorageKey, string(mode))
	m.storage.set(ResolvedThemeStorageKey, string(resolved))
	applyTheme(m.doc, resolved)
	writeCookie(m.cookies, cookie.ThemeName, string(mode))
	writeCookie(m.cookies, cookie.ResolvedThemeName, string(resolved))
	return resolved
}

// applySystem re-resolves a system-mode manager. It reports false, changing
// nothing, when the mode is explicit at the time the lock is taken.
func (m *ThemeManager) applySystem(dark bool) (domain.ResolvedTheme, bool) {
	m.apply.Lock()
	defer m.apply.Unlock()

	m.mu.Lock()
	if m.mode != domain.ThemeSystem {
		m.mu.Unlock()
		return "", false
	}
	resolved := domain.Resolve(domain.ThemeSystem, dark)
	m.resolved = resolved
	m.mu.Unlock()

	m.storage.set(ResolvedThemeStorageKey, string(resolved))
	applyTheme(m.doc, resolved)
	writeCookie(m.cookies, cookie.ResolvedThemeName, string(resolved))
	return resolved, true
}

// resolveLocked resolves mode against the live preference. When the
// environment cannot answer, an already-system manager keeps the resolved
// theme it was seeded with (on the server that is the resolved-theme cookie);
// otherwise the light default applies.
func (m *ThemeManager) resolveLocked(mode domain.ThemeMode) domain.ResolvedTheme {
	if mode != domain.ThemeSystem {
		return domain.Resolve(mode, false)
	}
	if m.media != nil {
		if dark, ok := m.media.PrefersDark(); ok {
			return domain.Resolve(mode, dark)
		}
	}
	if m.mode == domain.ThemeSystem {
		return m.resolved
	}
	return domain.DefaultResolvedTheme
}

func (m *ThemeManager) notify(mode domain.ThemeMode, resolved domain.ResolvedTheme) {
	for _, fn := range m.subs.snapshot() {
		fn(mode, resolved)
	}
}

func (m *ThemeManager) logDebug(msg string, fields ...interface{}) {
	if m.logger == nil {
		return
	}
	m.logger.Debug(context.Background(), msg, append([]interface{}{"component", "theme_manager"}, fields...)...)
}
