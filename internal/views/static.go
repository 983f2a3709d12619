package views

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFiles embed.FS

// Static is the stylesheet and page script, rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
