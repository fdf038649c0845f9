package catalog

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"little-genius/internal/domain"
)

// Loader fetches one catalog from a backing source (embedded files, a directory, Postgres...).
type Loader interface {
	LoadCatalog(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error)
}

// Registry holds every catalog in memory for the process lifetime.
// A failed load leaves that catalog empty; there is no invalidation.
type Registry struct {
	loader Loader
	sf     singleflight.Group

	mu       sync.RWMutex
	catalogs map[domain.CatalogKind][]domain.CatalogEntry
	failures map[domain.CatalogKind]error
}

func NewRegistry(loader Loader) *Registry {
	return &Registry{
		loader:   loader,
		catalogs: make(map[domain.CatalogKind][]domain.CatalogEntry),
		failures: make(map[domain.CatalogKind]error),
	}
}

// LoadAll loads the given catalogs concurrently. Each catalog is populated on its own;
// the returned error joins every LoadError but never means the registry is unusable.
func (r *Registry) LoadAll(ctx context.Context, kinds ...domain.CatalogKind) error {
	if len(kinds) == 0 {
		kinds = domain.CatalogKinds()
	}
	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			if err := r.Load(ctx, kind); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Load populates a single catalog once. Later calls return the cached outcome.
func (r *Registry) Load(ctx context.Context, kind domain.CatalogKind) error {
	if !kind.Valid() {
		return &domain.LoadError{Kind: kind, Err: domain.ErrUnknownCatalog}
	}
	if done, err := r.loaded(kind); done {
		return err
	}

	_, err, _ := r.sf.Do(string(kind), func() (interface{}, error) {
		if done, err := r.loaded(kind); done {
			return nil, err
		}
		entries, err := r.loader.LoadCatalog(ctx, kind)

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			loadErr := &domain.LoadError{Kind: kind, Err: err}
			log.Printf("catalog %s unavailable: %v", kind, err)
			r.catalogs[kind] = []domain.CatalogEntry{}
			r.failures[kind] = loadErr
			return nil, loadErr
		}
		if entries == nil {
			entries = []domain.CatalogEntry{}
		}
		r.catalogs[kind] = entries
		log.Printf("catalog %s loaded with %d entries", kind, len(entries))
		return nil, nil
	})
	return err
}

func (r *Registry) loaded(kind domain.CatalogKind) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.catalogs[kind]; !ok {
		return false, nil
	}
	if err, failed := r.failures[kind]; failed {
		return true, err
	}
	return true, nil
}

// Entries returns the loaded entries of a catalog; unknown or failed catalogs are empty.
// The returned slice is shared and must not be modified.
func (r *Registry) Entries(kind domain.CatalogKind) []domain.CatalogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entries, ok := r.catalogs[kind]; ok {
		return entries
	}
	return []domain.CatalogEntry{}
}

// Failure returns the LoadError recorded for a catalog, if any.
func (r *Registry) Failure(kind domain.CatalogKind) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.failures[kind]
}

// Lookup finds an entry by identity.
func (r *Registry) Lookup(kind domain.CatalogKind, id string) (domain.CatalogEntry, error) {
	for _, entry := range r.Entries(kind) {
		if entry.ID == id {
			return entry, nil
		}
	}
	return domain.CatalogEntry{}, domain.ErrEntryNotFound
}

// Search filters a catalog by case-insensitive name substring. An empty query returns everything.
func (r *Registry) Search(kind domain.CatalogKind, query string) []domain.CatalogEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	entries := r.Entries(kind)
	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		if q == "" || strings.Contains(strings.ToLower(entry.Name), q) {
			out = append(out, entry)
		}
	}
	return out
}

// FilterCategory keeps the entries of one category; an empty category matches all.
func FilterCategory(entries []domain.CatalogEntry, category string) []domain.CatalogEntry {
	if category == "" {
		return entries
	}
	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.EqualFold(entry.Category, category) {
			out = append(out, entry)
		}
	}
	return out
}

// Categories lists the distinct animal categories, sorted.
func (r *Registry) Categories() []string {
	set := make(map[string]struct{})
	for _, entry := range r.Entries(domain.CatalogAnimals) {
		if entry.Category != "" {
			set[entry.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
