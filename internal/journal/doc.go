// Package journal keeps a short append-only log of run failures in a local
// SQLite database. Older rows are pruned so the journal stays transient.
// Writing to the journal never fails the caller.
package journal
