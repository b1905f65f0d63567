// Package config loads application configuration from file, environment and
// flags via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/model"
)

// Config is the full application configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Classifier  ClassifierConfig  `mapstructure:"classifier"`
	Assets      AssetsConfig      `mapstructure:"assets"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Prediction  PredictionConfig  `mapstructure:"prediction"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Collect     CollectConfig     `mapstructure:"collect"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClassifierConfig selects and configures the classifier variant.
type ClassifierConfig struct {
	Provider   string        `mapstructure:"provider"`
	Endpoint   string        `mapstructure:"endpoint"`
	ModelPath  string        `mapstructure:"model_path"`
	ClassNames []string      `mapstructure:"class_names"`
	ImageSize  int           `mapstructure:"image_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// AssetsConfig configures the blob store.
type AssetsConfig struct {
	Bucket       string        `mapstructure:"bucket"`
	SignedURLTTL time.Duration `mapstructure:"signed_url_ttl"`
	TempMaxAge   time.Duration `mapstructure:"temp_max_age"`
}

// RedisConfig configures the leaderboard score store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig configures local history persistence.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// PredictionConfig controls result presentation.
type PredictionConfig struct {
	Limit int `mapstructure:"limit"`
}

// LeaderboardConfig controls board aggregation.
type LeaderboardConfig struct {
	UserCap int `mapstructure:"user_cap"`
}

// CollectConfig controls the collection flow.
type CollectConfig struct {
	MinInterval time.Duration `mapstructure:"min_interval"`
	Points      int64         `mapstructure:"points"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "siteseer", "config.yaml")
}

// Load reads configuration from the given file (or the default location when
// empty), layered under SITESEER_* environment variables. A missing file is
// fine; missing required values surface when the component is built.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigFile(DefaultPath())
	}

	v.SetEnvPrefix("SITESEER")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist and parse; the default
		// location is allowed to be absent.
		if cfgFile != "" {
			return nil, fmt.Errorf("%w: reading %s: %v", common.ErrInvalidConfig, cfgFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("classifier.provider", "remote")
	v.SetDefault("classifier.class_names", model.DefaultClassNames)
	v.SetDefault("classifier.image_size", 224)
	v.SetDefault("classifier.timeout", 30*time.Second)

	v.SetDefault("assets.signed_url_ttl", 15*time.Minute)
	v.SetDefault("assets.temp_max_age", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("storage.db_path", filepath.Join(defaultDataDir(), "siteseer.db"))

	v.SetDefault("prediction.limit", 3)
	v.SetDefault("leaderboard.user_cap", 100)

	v.SetDefault("collect.min_interval", 5*time.Second)
	v.SetDefault("collect.points", 1)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "siteseer")
}

