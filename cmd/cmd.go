package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "hr-core",
	Short: "HR Core",
	Long:  `Backend for the HR dashboard: employees, leave, overtime, schedules, attendance, benefits and the AI assistant.`,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.base_url", "http://localhost:8080")
	v.SetDefault("http_server.allowed_origins", "*")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 60*time.Second)
	v.SetDefault("http_server.idle_timeout", 120*time.Second)

	v.SetDefault("storage.driver", internal.StorageDriverSQLite)
	v.SetDefault("storage.sqlite_path", "hr-core.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.auto_migrate", true)
	v.SetDefault("storage.redis.addr", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "hrcore:")

	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.access_token_duration", 8*time.Hour)
	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("admin.legacy_email", "admin@hr-core.com")

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/")
	v.SetDefault("ai.api_version", "v1beta")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout", 30*time.Second)

	v.SetDefault("biometric.reader", internal.BiometricReaderSimulated)
	v.SetDefault("biometric.sync_interval", 5*time.Minute)
	v.SetDefault("biometric.max_concurrency", 4)
	v.SetDefault("biometric.device_timeout", 10*time.Second)

	v.SetDefault("locale.timezone", "")
	v.SetDefault("rate_limit.login", "5-M")

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
}

// loadConfig reads config.yml from path when present, then applies HRCORE_
// environment overrides (storage.driver -> HRCORE_STORAGE_DRIVER). A .env
// file in the working directory is loaded first.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("HRCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// mustLoadConfig loads config and sets up the process logger from it.
func mustLoadConfig() *internal.Config {
	cfg, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(logger.Options{
		Env:    cfg.Env,
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	})
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
