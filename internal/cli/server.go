package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"little-genius/internal/app"
	"little-genius/internal/catalog"
	"little-genius/internal/certificate"
	"little-genius/internal/config"
	"little-genius/internal/content"
	"little-genius/internal/infra/file"
	"little-genius/internal/infra/memory"
	"little-genius/internal/infra/postgres"
	redisstore "little-genius/internal/infra/redis"
	"little-genius/internal/infra/sqlite"
	transport "little-genius/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the explorer server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := catalogLoader(cfg, pool, redisClient)
	if err != nil {
		return err
	}
	registry := catalog.NewRegistry(loader)
	if err := registry.LoadAll(ctx); err != nil {
		// Failed catalogs stay empty; the rest of the app keeps working.
		log.Printf("some catalogs are unavailable: %v", err)
	}

	profiles, closeProfiles, err := profileStore(cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeProfiles()

	resultTTL := config.TTLDuration(cfg.Game.ResultTTL, 24*time.Hour)
	var results app.ResultStore = memory.NewResultStore(resultTTL)
	var store app.SessionRepository = memory.NewSessionStore()
	if redisClient != nil {
		results = redisstore.NewResultStore(redisClient, resultTTL)
		store = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}

	pngCerts, err := pngRenderer(cfg)
	if err != nil {
		return err
	}
	service := app.NewQuizService(store, registry, profiles, results,
		map[app.CertificateFormat]app.CertificateRenderer{
			app.CertificatePNG:  pngCerts,
			app.CertificateText: certificate.TextRenderer{},
		},
		gameSettings(cfg),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, registry, cfg.CORS.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting explorer on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// catalogLoader picks the catalog source and fronts it with the Redis cache when configured.
func catalogLoader(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (catalog.Loader, error) {
	var loader catalog.Loader
	switch cfg.Catalog.Source {
	case config.SourceDir:
		if cfg.Catalog.Dir == "" {
			return nil, fmt.Errorf("catalog dir not configured")
		}
		loader = file.NewCatalogLoader(os.DirFS(cfg.Catalog.Dir))
	case config.SourcePostgres:
		if pool == nil {
			return nil, fmt.Errorf("catalog source postgres needs a postgres url")
		}
		loader = postgres.NewCatalogLoader(pool)
	default:
		loader = file.NewCatalogLoader(content.FS())
	}
	if redisClient != nil {
		loader = redisstore.NewCatalogCache(redisClient, loader, config.TTLDuration(cfg.Redis.CatalogTTL, time.Hour))
	}
	return loader, nil
}

func profileStore(cfg config.Config, redisClient *redis.Client) (app.ProfileStore, func(), error) {
	switch {
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("close profile store: %v", err)
			}
		}, nil
	case redisClient != nil:
		return redisstore.NewProfileStore(redisClient), func() {}, nil
	default:
		return memory.NewProfileStore(), func() {}, nil
	}
}

// pngRenderer loads the configured certificate fonts, falling back to the
// usual Noto install paths when none are configured.
func pngRenderer(cfg config.Config) (*certificate.PNGRenderer, error) {
	paths := cfg.Certificate.Fonts
	if len(paths) == 0 {
		paths = certificate.DefaultFontPaths
	}
	fonts := certificate.ReadFonts(paths)
	log.Printf("certificate renderer using %d extra font(s)", len(fonts))
	return certificate.NewPNGRenderer(fonts...)
}

func gameSettings(cfg config.Config) app.Settings {
	settings := app.DefaultSettings()
	if cfg.Game.Questions > 0 {
		settings.QuestionCount = cfg.Game.Questions
	}
	if cfg.Game.Points > 0 {
		settings.PointsPerQuestion = cfg.Game.Points
	}
	if cfg.Game.NumberMax > 0 {
		settings.NumberMax = cfg.Game.NumberMax
	}
	settings.AdvanceDelay = config.TTLDuration(cfg.Game.AdvanceDelay, settings.AdvanceDelay)
	return settings
}
