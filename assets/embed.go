// assets/embed.go
//
// Embedded defaults shipped inside the binary:
//   - catalog.yaml: item ids for every content pool.
//   - sql/*.sql:    schema migrations applied at boot.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed catalog.yaml sql/*.sql
var FS embed.FS

// Catalog returns the raw embedded catalog YAML.
func Catalog() ([]byte, error) {
	return FS.ReadFile("catalog.yaml")
}

// Migrations returns the embedded sql directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
