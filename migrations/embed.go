// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
// Each SQL backend has its own directory because the dialects differ.
package migrations

import (
	"embed"
	"io/fs"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Postgres returns the Postgres migrations rooted at their directory, ready
// to pass to goose.NewProvider.
func Postgres() fs.FS {
	return sub("postgres")
}

// SQLite returns the SQLite migrations rooted at their directory.
func SQLite() fs.FS {
	return sub("sqlite")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(FS, dir)
	if err != nil {
		// fs.Sub only fails on an invalid path, and dir is a constant.
		panic("migrations: " + err.Error())
	}
	return f
}
