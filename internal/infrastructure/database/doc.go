// Package database is the SQLite layer under the lifecycle journal.
//
// Open applies the WAL and busy-timeout pragmas, restricts the file to
// the owner, and pins the pool to a single connection: SQLite allows one
// writer and the journal is append-mostly, so one connection avoids lock
// churn entirely.
//
// Schema changes ship as embedded migrations (see the migrations package
// at the repo root). Each migration runs in its own transaction and pairs
// an .up.sql with a .down.sql, so a failed deploy can step back one
// version without hand-editing the schema.
package database
