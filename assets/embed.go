// assets/embed.go
//
// Embedded runtime data: the preset catalogue, gettext catalogues for
// state labels, and SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed presets.yaml locales/*.po sql/*.sql
var FS embed.FS

// Presets returns the raw embedded preset catalogue.
func Presets() ([]byte, error) {
	return FS.ReadFile("presets.yaml")
}

// Locale returns the raw .po catalogue for a language tag such as "es".
func Locale(lang string) ([]byte, error) {
	return FS.ReadFile("locales/" + lang + ".po")
}

// Migrations returns the sql/ sub-tree.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
