// Package assets bundles the files the server needs at runtime: the
// localization catalog and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed locales.json sql/*.sql
var FS embed.FS

// Locales returns the default localization catalog document.
func Locales() ([]byte, error) {
	return FS.ReadFile("locales.json")
}

// Migrations exposes the sql/ directory as its own filesystem root.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
