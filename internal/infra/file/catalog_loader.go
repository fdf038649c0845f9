package file

import (
	"context"
	"fmt"
	"io/fs"

	"little-genius/internal/catalog"
	"little-genius/internal/domain"
)

// Files maps each catalog to its JSON file name.
var Files = map[domain.CatalogKind]string{
	domain.CatalogAnimals:   "animals.json",
	domain.CatalogShapes:    "shapes.json",
	domain.CatalogColors:    "colors.json",
	domain.CatalogLettersEN: "letters_english.json",
	domain.CatalogLettersTE: "letters_telugu.json",
	domain.CatalogLettersHI: "letters_hindi.json",
}

// CatalogLoader reads catalog JSON files from a filesystem (a data directory or an embed.FS).
type CatalogLoader struct {
	fsys fs.FS
}

func NewCatalogLoader(fsys fs.FS) *CatalogLoader {
	return &CatalogLoader{fsys: fsys}
}

func (l *CatalogLoader) LoadCatalog(_ context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	name, ok := Files[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCatalog, kind)
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return catalog.Decode(kind, data)
}

// Raw returns the undecoded file of a catalog, used when seeding other stores.
func (l *CatalogLoader) Raw(kind domain.CatalogKind) ([]byte, error) {
	name, ok := Files[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCatalog, kind)
	}
	return fs.ReadFile(l.fsys, name)
}
