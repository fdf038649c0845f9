// Package content embeds the default flashcard catalogs shipped with the service.
package content

import (
	"embed"
	"io/fs"
)

//go:embed data/*.json
var data embed.FS

// FS returns the embedded catalog files rooted at the data directory.
func FS() fs.FS {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		panic("content: " + err.Error())
	}
	return sub
}
