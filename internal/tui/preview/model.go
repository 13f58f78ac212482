// Package preview is a terminal client that plays the role of a long-lived
// browser session: it hydrates the shared appearance Context once and lets the
// user change the theme, the palette and the simulated OS preference.
package preview

import (
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	appearanceapp "github.com/alexisbeaulieu97/conservancy/internal/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/dom"
)

// eventBuffer bounds pending notifications. Dropping is safe because every
// render reads the managers directly.
const eventBuffer = 16

// Model is the bubbletea model for the preview client.
type Model struct {
	actx  *appearanceapp.Context
	doc   *dom.Document
	media *dom.MediaQuery

	events chan tea.Msg
	stop   *subscriptions

	keys keyMap
	help help.Model

	state      appearance.State
	lastChange string
	width      int
	quitting   bool
}

// subscriptions owns the events channel. send and close share mu, so a
// notification that arrives after close is dropped instead of panicking.
type subscriptions struct {
	mu     sync.Mutex
	closed bool
	remove []func()
	events chan tea.Msg
}

// send never blocks; when the buffer is full the message is dropped.
func (s *subscriptions) send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- msg:
	default:
	}
}

func (s *subscriptions) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	remove := s.remove
	close(s.events)
	s.mu.Unlock()

	for _, fn := range remove {
		fn()
	}
}

// NewModel subscribes to both managers of actx. doc and media are the
// surfaces actx was hydrated against; media may be nil when the environment
// has no colour-scheme source.
func NewModel(actx *appearanceapp.Context, doc *dom.Document, media *dom.MediaQuery) Model {
	events := make(chan tea.Msg, eventBuffer)
	subs := &subscriptions{events: events}
	subs.remove = append(subs.remove,
		actx.Theme.Subscribe(func(mode appearance.ThemeMode, resolved appearance.ResolvedTheme) {
			subs.send(ThemeChangedMsg{Theme: mode, Resolved: resolved})
		}),
		actx.Palette.Subscribe(func(p appearance.PaletteMode) {
			subs.send(PaletteChangedMsg{Palette: p})
		}),
	)

	return Model{
		actx:   actx,
		doc:    doc,
		media:  media,
		events: events,
		stop:   subs,
		keys:   defaultKeyMap(),
		help:   help.New(),
		state:  actx.State(),
		width:  80,
	}
}

// Init starts listening for manager notifications.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.events)
}

// Close removes the subscriptions. It is safe to call more than once.
func (m Model) Close() {
	m.stop.close()
}

// State returns the state the model last rendered.
func (m Model) State() appearance.State {
	return m.state
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}
