// Package database records the history of marinecrawl runs in SQLite.
//
// HistoryDB stores one row per run and one row per pass of that run, so
// record and error counts can be compared between runs without reading the
// cumulative dataset files. The datasets themselves stay in CSV files.
//
// modernc.org/sqlite is a CGO-free driver; the database is a single file in
// the XDG data directory.
package database
