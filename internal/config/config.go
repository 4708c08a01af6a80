package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL       string        `mapstructure:"api_base_url"`
	RequestTimeoutMs int64         `mapstructure:"request_timeout_ms"`
	RequestTimeout   time.Duration `mapstructure:"-"`
	ListenAddr       string        `mapstructure:"listen_addr"`
	PublishersFile   string        `mapstructure:"publishers_file"`

	LoadWorkers           int `mapstructure:"load_workers"`
	LoadRequestsPerWorker int `mapstructure:"load_requests_per_worker"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "bank-console")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("request_timeout_ms", 5000)
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("publishers_file", "")
	v.SetDefault("load_workers", 100)
	v.SetDefault("load_requests_per_worker", 200)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/reports.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url is required")
	}
	if cfg.RequestTimeoutMs <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_ms (must be positive milliseconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutMs) * time.Millisecond

	if cfg.LoadWorkers <= 0 || cfg.LoadRequestsPerWorker <= 0 {
		return nil, fmt.Errorf("invalid load test plan (workers and requests per worker must be positive)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
