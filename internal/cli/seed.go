package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"little-genius/internal/config"
	"little-genius/internal/content"
	"little-genius/internal/domain"
	"little-genius/internal/infra/file"
	"little-genius/internal/infra/postgres"
	redisstore "little-genius/internal/infra/redis"
)

// NewSeedCmd copies catalog files into the Postgres catalogs table.
func NewSeedCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog JSON into Postgres (embedded catalogs unless --dir is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return seedCatalogs(cmd.Context(), cfg, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory with catalog JSON files")
	return cmd
}

func seedCatalogs(ctx context.Context, cfg config.Config, dir string) error {
	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrateDB(ctx, db); err != nil {
		return err
	}

	src := file.NewCatalogLoader(content.FS())
	if dir != "" {
		src = file.NewCatalogLoader(os.DirFS(dir))
	}
	kinds := domain.CatalogKinds()
	if err := postgres.SeedCatalogs(ctx, db, src, kinds...); err != nil {
		return err
	}
	log.Printf("seeded %d catalogs", len(kinds))

	if cfg.Redis.Addr == "" {
		return nil
	}
	client := newRedisClient(cfg)
	defer client.Close()
	return invalidateCachedCatalogs(ctx, client, kinds)
}

// invalidateCachedCatalogs drops Redis copies of reseeded catalogs so running
// servers pick up the new rows on their next load.
func invalidateCachedCatalogs(ctx context.Context, client *redis.Client, kinds []domain.CatalogKind) error {
	cache := redisstore.NewCatalogCache(client, nil, 0)
	if err := cache.Invalidate(ctx, kinds...); err != nil {
		return fmt.Errorf("invalidate cached catalogs: %w", err)
	}
	log.Printf("invalidated %d cached catalogs", len(kinds))
	return nil
}
