// Package appearance hosts the runtime theme and palette managers.
//
// A manager keeps the current value in memory, mirrors every change to
// storage, the document root and cookies, and then notifies subscribers. The
// Factory decides how managers are vended: a fresh pair per call on the server
// so requests never share state, and a single hydrated pair for the lifetime
// of a client session.
package appearance
