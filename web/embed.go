// Package web embeds the dashboard's HTML templates and stylesheet.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assetsFS embed.FS

// Templates returns the embedded html/template sources, rooted at templates/.
func Templates() (fs.FS, error) {
	return fs.Sub(assetsFS, "templates")
}

// Static returns the embedded static files, rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(assetsFS, "static")
}
