package dom

import (
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// MediaQuery is a settable prefers-color-scheme source.
type MediaQuery struct {
	mu        sync.Mutex
	dark      bool
	available bool
	nextID    int
	listeners map[int]func(bool)
}

// NewMediaQuery returns a query that currently reports dark.
func NewMediaQuery(dark bool) *MediaQuery {
	return &MediaQuery{dark: dark, available: true, listeners: make(map[int]func(bool))}
}

// UnsupportedMediaQuery returns a query for environments without the
// media-query API. It never answers and never fires.
func UnsupportedMediaQuery() *MediaQuery {
	return &MediaQuery{listeners: make(map[int]func(bool))}
}

// PrefersDark implements ports.ColorSchemeQuery.
func (q *MediaQuery) PrefersDark() (bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.available {
		return false, false
	}
	return q.dark, true
}

// OnChange implements ports.ColorSchemeQuery.
func (q *MediaQuery) OnChange(fn func(bool)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.available || fn == nil {
		return func() {}
	}
	id := q.nextID
	q.nextID++
	q.listeners[id] = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.listeners, id)
	}
}

// Set changes the preference and notifies listeners when the value changed.
func (q *MediaQuery) Set(dark bool) {
	q.mu.Lock()
	if !q.available || q.dark == dark {
		q.mu.Unlock()
		return
	}
	q.dark = dark
	fns := make([]func(bool), 0, len(q.listeners))
	for _, fn := range q.listeners {
		fns = append(fns, fn)
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}

// Toggle flips the preference.
func (q *MediaQuery) Toggle() {
	q.mu.Lock()
	next := !q.dark
	q.mu.Unlock()
	q.Set(next)
}

// Listeners reports how many change listeners are registered.
func (q *MediaQuery) Listeners() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.listeners)
}

var _ ports.ColorSchemeQuery = (*MediaQuery)(nil)
