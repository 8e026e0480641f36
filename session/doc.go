// Package session persists conversation histories between runs. A Store maps
// a session id to the ordered run items produced so far; the runner loads the
// history before a run and appends the newly generated items afterwards.
//
// Add additional backends (Redis, Postgres, SQLite, etc.) without changing any
// calling code – only the wiring layer needs to decide which implementation to
// instantiate.
package session
