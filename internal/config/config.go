package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" validate:"gte=0"`
	LogMaxBackups int    `mapstructure:"log_max_backups" validate:"gte=0"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days" validate:"gte=0"`

	ServerAddress string `mapstructure:"vu1_server_address" validate:"required"`
	ServerPort    int    `mapstructure:"vu1_server_port" validate:"required,min=1,max=65535"`
	APIKey        string `mapstructure:"api_key" json:"-"`
	AdminKey      string `mapstructure:"admin_key" json:"-"`
	TargetDialUID string `mapstructure:"target_dial_uid"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds" validate:"gt=0"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	ProfilesFile   string `mapstructure:"profiles_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	PollIntervalSeconds int64         `mapstructure:"poll_interval" validate:"gt=0"`
	PollInterval        time.Duration `mapstructure:"-"`
	PollWorkers         int           `mapstructure:"poll_workers" validate:"gt=0"`

	StorageType            string        `mapstructure:"storage_type" validate:"omitempty,oneof=bbolt none disabled"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds" validate:"gt=0"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds" validate:"gt=0"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "vudials")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 100)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 28)
	v.SetDefault("vu1_server_address", "localhost")
	v.SetDefault("vu1_server_port", 5340)
	v.SetDefault("api_key", "")
	v.SetDefault("admin_key", "")
	v.SetDefault("target_dial_uid", "")
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("profiles_file", "./configs/dials.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 60) // seconds
	v.SetDefault("poll_workers", 4)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/uploads.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
