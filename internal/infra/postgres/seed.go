package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
	"little-genius/internal/domain"
)

// CatalogRow is one catalog document in the catalogs table.
type CatalogRow struct {
	bun.BaseModel `bun:"table:catalogs"`

	Kind string `bun:"kind,pk"`
	Data string `bun:"data,type:jsonb"`
}

// RawSource returns the raw JSON document of a catalog.
type RawSource interface {
	Raw(kind domain.CatalogKind) ([]byte, error)
}

// SeedCatalogs upserts the raw documents of kinds into the catalogs table.
func SeedCatalogs(ctx context.Context, db *bun.DB, src RawSource, kinds ...domain.CatalogKind) error {
	rows := make([]CatalogRow, 0, len(kinds))
	for _, kind := range kinds {
		raw, err := src.Raw(kind)
		if err != nil {
			return fmt.Errorf("read %s: %w", kind, err)
		}
		if !json.Valid(raw) {
			return fmt.Errorf("read %s: invalid json", kind)
		}
		rows = append(rows, CatalogRow{Kind: string(kind), Data: string(raw)})
	}
	if len(rows) == 0 {
		return nil
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (kind) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert catalogs: %w", err)
	}
	return nil
}
