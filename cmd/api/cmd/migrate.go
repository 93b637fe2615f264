package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userapi/internal/config"
	"userapi/internal/database"
	"userapi/internal/database/migration"
	"userapi/internal/repository/memory"
	"userapi/internal/repository/objectstore"
	"userapi/internal/storage"
)

var migrateTarget string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and seed the users table, or publish the seed document",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateTarget, "target", config.UserSourcePostgres, "seed target (postgres, minio)")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), seedTimeout)
	defer cancel()

	switch migrateTarget {
	case config.UserSourcePostgres:
		return migratePostgres(ctx, cfg, l)
	case config.UserSourceMinIO:
		return publishSeed(ctx, cfg, l)
	default:
		return fmt.Errorf("unsupported migrate target %q", migrateTarget)
	}
}

func migratePostgres(ctx context.Context, cfg *config.AppConfig, l *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migration.EnsureMigrated(ctx, db, l.With(zap.String("db_host", cfg.Database.Host)), memory.Users())
}

func publishSeed(ctx context.Context, cfg *config.AppConfig, l *zap.Logger) error {
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	info, err := objectstore.NewUserObjectStore(objStore, cfg.MinIO.UsersKey).Publish(ctx, memory.Users())
	if err != nil {
		return err
	}

	l.Info("seed_published",
		zap.String("bucket", cfg.MinIO.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size),
		zap.String("etag", info.ETag),
	)
	return nil
}
