package main

import (
	"context"
	"fmt"
	"log"

	"anoa.com/eventtech/internal/bootstrap"
	"anoa.com/eventtech/internal/config"
	"anoa.com/eventtech/internal/server"
	"anoa.com/eventtech/pkg/database"
	"anoa.com/eventtech/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), configFromContext(cmd.Context()))
		},
	}
}

func serveRun(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := bootstrap.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		if err := bootstrap.SeedEvents(db, bootstrap.DefaultEvents()); err != nil {
			return fmt.Errorf("failed to seed events: %w", err)
		}
	}

	redisClient, err := openRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var meiliClient meilisearch.ServiceManager
	if host := cfg.MeiliHost(); host != "" {
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	} else {
		log.Printf("[search] MEILISEARCH_HOST not set, participant search uses the database")
	}

	var archive storage.ArchiveStorage
	if cfg.CloudinaryURL != "" || cfg.CloudinaryCloudName != "" {
		archive, err = storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryCloudName, cfg.CloudinaryUploadFolder)
		if err != nil {
			return fmt.Errorf("failed to initialize cloudinary storage: %w", err)
		}
	} else if cfg.ExportArchive {
		log.Printf("[export] EXPORT_ARCHIVE is set but cloudinary is not configured, archiving disabled")
		cfg.ExportArchive = false
	}

	srv := server.NewServer(cfg, server.Deps{
		DB:          db,
		RedisClient: redisClient,
		MeiliClient: meiliClient,
		Archive:     archive,
	})

	addr := ":" + cfg.Port
	log.Printf("[server] listening on %s (%s)", addr, cfg.AppEnv)
	return srv.Run(addr)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := database.DefaultConfig()
	if cfg.DatabaseURL != "" {
		dbCfg = database.ConfigFromURL(cfg.DatabaseURL)
	}
	return database.Open(dbCfg)
}

// openRedis returns nil when REDIS_URL is unset; sessions, rate limits
// and the activity feed then fall back to their in-process modes.
func openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		log.Printf("[redis] REDIS_URL not set, running without redis")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
