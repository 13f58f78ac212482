package appearance

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	domain "github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// PaletteSubscriber observes palette changes.
type PaletteSubscriber func(palette domain.PaletteMode)

// PaletteManager is the observable palette container.
type PaletteManager struct {
	apply   sync.Mutex
	mu      sync.Mutex
	palette domain.PaletteMode

	storage *safeStorage
	doc     ports.Document
	cookies ports.CookieWriter
	logger  ports.Logger
	subs    subscribers[PaletteSubscriber]
}

// NewPaletteManager returns a manager seeded from initial.Palette.
func NewPaletteManager(initial domain.State, deps Dependencies) *PaletteManager {
	return newPaletteManager(initial, deps, newSafeStorage(deps.Storage, deps.Logger))
}

func newPaletteManager(initial domain.State, deps Dependencies, store *safeStorage) *PaletteManager {
	return &PaletteManager{
		palette: domain.ValidatePalette(string(initial.Palette)),
		storage: store,
		doc:     deps.Document,
		cookies: deps.Cookies,
		logger:  deps.Logger,
	}
}

// Get returns the current palette.
func (m *PaletteManager) Get() domain.PaletteMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.palette
}

// Set switches the palette. Unknown values are coerced to the default
// palette. It returns the palette actually applied. Like ThemeManager.Set,
// the whole update runs under one lock and subscribers run after it.
func (m *PaletteManager) Set(palette domain.PaletteMode) domain.PaletteMode {
	palette = domain.ValidatePalette(string(palette))

	m.commit(palette)

	if m.logger != nil {
		m.logger.Debug(context.Background(), "palette changed", "component", "palette_manager", "palette", string(palette))
	}
	for _, fn := range m.subs.snapshot() {
		fn(palette)
	}
	return palette
}

// Subscribe registers fn for every later change and returns a function that
// removes it.
func (m *PaletteManager) Subscribe(fn PaletteSubscriber) func() {
	if fn == nil {
		return func() {}
	}
	return m.subs.add(fn)
}

// commit writes palette to memory, storage, the document and the cookie as
// one unit.
func (m *PaletteManager) commit(palette domain.PaletteMode) {
	m.apply.Lock()
	defer m.apply.Unlock()

	m.mu.Lock()
	m.palette = palette
	m.mu.Unlock()

	m.storage.set(PaletteStorageKey, string(palette))
	applyPalette(m.doc, palette)
	writeCookie(m.cookies, cookie.PaletteName, string(palette))
}
