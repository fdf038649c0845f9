package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"little-genius/internal/catalog"
	"little-genius/internal/domain"
)

// CatalogLoader loads catalog JSONB documents from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM catalogs WHERE kind=$1`, string(kind)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCatalog, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s catalog: %w", kind, err)
	}
	return catalog.Decode(kind, raw)
}
