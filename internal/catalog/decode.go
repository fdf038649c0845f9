package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"little-genius/internal/domain"
)

// record is the union of every catalog file's JSON shape.
type record struct {
	Name     string `json:"name"`
	Char     string `json:"char"`
	Image    string `json:"image"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Fact     string `json:"fact"`
	Sound    string `json:"sound"`
	Category string `json:"category"`
}

// Decode parses the raw JSON array of a catalog source into entries.
// Records without an identity are skipped, duplicate identities keep the first occurrence.
func Decode(kind domain.CatalogKind, data []byte) ([]domain.CatalogEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCatalog, kind)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	entries := make([]domain.CatalogEntry, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		entry := toEntry(kind, rec)
		if entry.ID == "" {
			log.Printf("catalog %s: skipping record %d without identity", kind, i)
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			log.Printf("catalog %s: skipping duplicate %q", kind, entry.ID)
			continue
		}
		seen[entry.ID] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}

func toEntry(kind domain.CatalogKind, rec record) domain.CatalogEntry {
	name := strings.TrimSpace(rec.Name)
	entry := domain.CatalogEntry{
		ID:         name,
		Name:       name,
		AudioAsset: strings.TrimSpace(rec.Sound),
	}
	switch kind {
	case domain.CatalogAnimals:
		entry.DisplayAsset = rec.Image
		entry.SpokenFact = rec.Fact
		entry.Category = strings.TrimSpace(rec.Category)
	case domain.CatalogShapes:
		entry.DisplayAsset = rec.Icon
	case domain.CatalogColors:
		entry.DisplayAsset = rec.Color
	case domain.CatalogLettersEN, domain.CatalogLettersTE, domain.CatalogLettersHI:
		char := strings.TrimSpace(rec.Char)
		entry.ID = char
		entry.Name = char
		entry.DisplayAsset = char
	}
	return entry
}
