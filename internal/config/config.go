package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second
	Burst     int           `mapstructure:"burst"`
}

// StorageConfig configures durable local storage.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	Path       string `mapstructure:"path"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Default returns a Config with defaults applied.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   10 * time.Second,
			RateLimit: 20,
			Burst:     10,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads config.yaml from dir (or the default config directory when dir
// is empty), applies EDUZ_* environment overrides and fills in path defaults.
// A missing config file is not an error.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	} else if d, err := configDir(); err == nil {
		v.AddConfigPath(d)
	}

	v.SetEnvPrefix("EDUZ")
	v.AutomaticEnv()
	_ = v.BindEnv("api.base_url", "EDUZ_API_BASE_URL")
	_ = v.BindEnv("api.timeout", "EDUZ_API_TIMEOUT")
	_ = v.BindEnv("storage.db_path", "EDUZ_DB")
	_ = v.BindEnv("log.path", "EDUZ_LOG_PATH")
	_ = v.BindEnv("log.level", "EDUZ_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Storage.DBPath == "" {
		p, err := DefaultDataPath("eduz.db")
		if err != nil {
			return Config{}, err
		}
		cfg.Storage.DBPath = p
	}
	if cfg.Log.Path == "" {
		p, err := DefaultDataPath(filepath.Join("logs", "eduz.log"))
		if err != nil {
			return Config{}, err
		}
		cfg.Log.Path = p
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.rate_limit", d.API.RateLimit)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("storage.db_path", "")
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// configDir returns $XDG_CONFIG_HOME/eduz or ~/.config/eduz.
func configDir() (string, error) {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "eduz"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "eduz"), nil
}

// DefaultDataPath resolves name under $XDG_DATA_HOME/eduz, falling back to
// ~/.local/share/eduz. The parent directory is created.
func DefaultDataPath(name string) (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(dataHome, "eduz", name)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
