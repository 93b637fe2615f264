package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userapi/internal/config"
	"userapi/internal/logger"
)

const appName = "userapi"

var configFile string

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "User API with centralized error handling",
	Long:          `userapi serves a read-only user list and maps failures to uniform JSON error bodies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (overrides CONFIG_FILE)")
}

// Execute runs the root command. Without a subcommand it serves HTTP.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Location: logger.LoadLocation(cfg.Log.Timezone),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return cfg, l.With(zap.String("service", appName), zap.String("env", cfg.Environment)), nil
}
