// Package dom holds in-memory stand-ins for the browser surfaces the
// appearance runtime drives: the document root, its cookie jar and the
// prefers-color-scheme media query. The terminal preview renders from them and
// tests assert against them.
package dom

import (
	"sort"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Document models the document root element plus document.cookie.
type Document struct {
	mu      sync.RWMutex
	classes map[string]struct{}
	style   map[string]string
	attrs   map[string]string
	cookies map[string]string
	writes  int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		classes: make(map[string]struct{}),
		style:   make(map[string]string),
		attrs:   make(map[string]string),
		cookies: make(map[string]string),
	}
}

// ToggleClass implements ports.Document.
func (d *Document) ToggleClass(name string, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		d.classes[name] = struct{}{}
		return
	}
	delete(d.classes, name)
}

// SetStyleProperty implements ports.Document.
func (d *Document) SetStyleProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.style[name] = value
}

// SetAttribute implements ports.Document.
func (d *Document) SetAttribute(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attrs[name] = value
}

// RemoveAttribute implements ports.Document.
func (d *Document) RemoveAttribute(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.attrs, name)
}

// SetCookie implements ports.CookieWriter. Strings that do not parse as a
// Set-Cookie value are ignored, as a browser would.
func (d *Document) SetCookie(raw string) {
	name, value, ok := cookie.Parse(raw)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies[name] = value
	d.writes++
}

// HasClass reports whether the class is present on the root.
func (d *Document) HasClass(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.classes[name]
	return ok
}

// Classes returns the root's class list in sorted order.
func (d *Document) Classes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.classes))
	for c := range d.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// StyleProperty returns an inline style property, or "" when unset.
func (d *Document) StyleProperty(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.style[name]
}

// Attribute returns an attribute value and whether it is present.
func (d *Document) Attribute(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.attrs[name]
	return v, ok
}

// Cookies returns a copy of the cookie jar.
func (d *Document) Cookies() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.cookies))
	for k, v := range d.cookies {
		out[k] = v
	}
	return out
}

// CookieWrites counts accepted SetCookie calls.
func (d *Document) CookieWrites() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.writes
}

// CookieHeader renders the jar the way document.cookie reads back.
func (d *Document) CookieHeader() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.cookies))
	for n := range d.cookies {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+"="+d.cookies[n])
	}
	return strings.Join(parts, "; ")
}

var (
	_ ports.Document     = (*Document)(nil)
	_ ports.CookieWriter = (*Document)(nil)
)
