package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// User seed sources accepted by USER_SOURCE.
const (
	UserSourceBuiltin  = "builtin"
	UserSourcePostgres = "postgres"
	UserSourceMinIO    = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	UsersKey  string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level    string
	Encoding string
	Timezone string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables and an optional config file.
type AppConfig struct {
	AppHost     string
	Port        string
	Environment string
	UserSource  string
	Log         LogConfig
	Database    DatabaseConfig
	MinIO       MinIOConfig
}

// Load reads configuration with viper.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Precedence: environment > CONFIG_FILE > defaults.
func Load() (*AppConfig, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path falls back
// to CONFIG_FILE.
func LoadFile(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &AppConfig{
		AppHost:     v.GetString("app_host"),
		Port:        v.GetString("port"),
		Environment: v.GetString("app_env"),
		UserSource:  strings.ToLower(v.GetString("user_source")),
		Log: LogConfig{
			Level:    v.GetString("log_level"),
			Encoding: v.GetString("log_encoding"),
			Timezone: v.GetString("tz_name"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("db_host"),
			Port:               v.GetString("db_port"),
			User:               v.GetString("db_user"),
			Password:           v.GetString("db_password"),
			Name:               v.GetString("db_name"),
			SSLMode:            v.GetString("db_sslmode"),
			MaxOpenConns:       v.GetInt("db_max_open_conns"),
			MaxIdleConns:       v.GetInt("db_max_idle_conns"),
			ConnMaxLifetimeSec: v.GetInt("db_conn_max_lifetime_sec"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("minio_endpoint"),
			AccessKey: v.GetString("minio_access_key"),
			SecretKey: v.GetString("minio_secret_key"),
			Bucket:    v.GetString("minio_bucket"),
			UseSSL:    v.GetBool("minio_use_ssl"),
			UsersKey:  v.GetString("minio_users_key"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_host", "localhost:8080")
	v.SetDefault("port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("user_source", UserSourceBuiltin)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")
	v.SetDefault("tz_name", "UTC")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime_sec", 300)
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_users_key", "seed/users.json")
}

func validate(cfg *AppConfig) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %q", cfg.Port)
	}

	switch cfg.UserSource {
	case UserSourceBuiltin, UserSourcePostgres, UserSourceMinIO:
	default:
		return fmt.Errorf("unsupported user source %q", cfg.UserSource)
	}

	switch cfg.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log encoding %q", cfg.Log.Encoding)
	}
	return nil
}
