package memory

import (
	"context"

	"little-genius/internal/domain"
)

// StaticCatalogLoader serves catalogs from an in-memory map (useful for tests/demos).
type StaticCatalogLoader struct {
	catalogs map[domain.CatalogKind][]domain.CatalogEntry
}

func NewStaticCatalogLoader(catalogs map[domain.CatalogKind][]domain.CatalogEntry) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalogs: catalogs}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	if entries, ok := l.catalogs[kind]; ok {
		return entries, nil
	}
	return nil, domain.ErrUnknownCatalog
}
