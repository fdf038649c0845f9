package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"little-genius/internal/catalog"
	"little-genius/internal/domain"
)

// CatalogCache keeps decoded catalogs in Redis and falls back to a loader on cache miss.
// Entries are stored as JSON: SET explorer:catalog:{kind} [...entries]
type CatalogCache struct {
	client *redis.Client
	loader catalog.Loader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader catalog.Loader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) LoadCatalog(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	if entries, ok := c.cached(ctx, kind); ok {
		return entries, nil
	}

	result, err, _ := c.sf.Do(string(kind), func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if entries, ok := c.cached(ctx, kind); ok {
			return entries, nil
		}

		entries, err := c.loader.LoadCatalog(ctx, kind)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("marshal %s catalog: %w", kind, err)
		}
		if err := c.client.Set(ctx, catalogKey(kind), raw, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("catalog cache: store %s: %v", kind, err)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CatalogEntry), nil
}

// Invalidate drops cached catalogs so the next load reads the source again.
func (c *CatalogCache) Invalidate(ctx context.Context, kinds ...domain.CatalogKind) error {
	if len(kinds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		keys = append(keys, catalogKey(kind))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *CatalogCache) cached(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, bool) {
	raw, err := c.client.Get(ctx, catalogKey(kind)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("catalog cache: read %s: %v", kind, err)
		}
		return nil, false
	}
	var entries []domain.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("catalog cache: corrupt %s entry: %v", kind, err)
		return nil, false
	}
	return entries, true
}

func catalogKey(kind domain.CatalogKind) string {
	return "explorer:catalog:" + string(kind)
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
