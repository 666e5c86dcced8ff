// Package library is the application layer between the CLI and the store.
//
// The store persists exactly what it is given. Service fills in what the
// store leaves to callers: new collections get a UUID, a palette color and a
// creation time, and every icon delete is followed by a recount of the owning
// collection so IconCount stays accurate. ImportFolder scans the folder before
// touching the database, so the store lock is never held during file I/O.
//
// Errors returned by Service name the failed operation and wrap the store
// error, so callers can both print them and test them with errors.Is.
package library
