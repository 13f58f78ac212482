package ports

import "errors"

// ErrStorageUnavailable is returned by Storage implementations that cannot
// persist anything at all, such as a browser with storage disabled.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Storage is the synchronous key/value store used for instant client-side
// restoration, the equivalent of a browser's local storage. A missing key is
// reported as ("", false, nil). Implementations may fail on any call; callers
// in the appearance layer treat failures as an absent value or a no-op write.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// Document is the small slice of the document root the appearance layer
// mutates: a class list, inline style properties and attributes.
type Document interface {
	ToggleClass(name string, on bool)
	SetStyleProperty(name, value string)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
}

// CookieWriter receives Set-Cookie formatted strings, like assigning to
// document.cookie in a browser or adding a response header on the server.
type CookieWriter interface {
	SetCookie(raw string)
}

// ColorSchemeQuery exposes the environment's live colour-scheme preference.
type ColorSchemeQuery interface {
	// PrefersDark reports the current preference. ok is false when the
	// environment cannot answer, which callers treat as "no preference".
	PrefersDark() (dark bool, ok bool)
	// OnChange registers fn for preference changes and returns a function that
	// removes the registration.
	OnChange(fn func(dark bool)) (remove func())
}
