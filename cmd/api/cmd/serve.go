package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userapi/internal/config"
	"userapi/internal/database"
	"userapi/internal/http/server"
	"userapi/internal/otel"
	"userapi/internal/repository"
	"userapi/internal/repository/memory"
	"userapi/internal/repository/objectstore"
	"userapi/internal/repository/postgres"
	"userapi/internal/service"
	"userapi/internal/storage"
	"userapi/internal/store"
)

const (
	seedTimeout     = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck

	shutdownTracing, err := otel.Init(ctx, l, appName)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			l.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	seedCtx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	src, db, err := openUserSource(seedCtx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	users, err := store.Load(seedCtx, src)
	if err != nil {
		return err
	}
	l.Info("users_loaded", zap.String("source", cfg.UserSource), zap.Int("count", users.Len()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := server.New(server.Deps{
		Logger:   l,
		DB:       db,
		Users:    service.NewUserService(users),
		Registry: reg,
		AppName:  appName,

		PublicHost: cfg.AppHost,
	})
	if err != nil {
		return err
	}

	return server.Run(ctx, app, ":"+cfg.Port, shutdownTimeout, l)
}

// openUserSource returns the configured seed source. The returned *sql.DB is
// non-nil only for the postgres source and is owned by the caller.
func openUserSource(ctx context.Context, cfg *config.AppConfig) (repository.UserSource, *sql.DB, error) {
	switch cfg.UserSource {
	case config.UserSourcePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewUserPostgres(db), db, nil
	case config.UserSourceMinIO:
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return objectstore.NewUserObjectStore(objStore, cfg.MinIO.UsersKey), nil, nil
	default:
		return memory.NewUserSeed(), nil, nil
	}
}
