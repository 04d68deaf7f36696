package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"lmp-shapers/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RefMap    RefMapConfig    `mapstructure:"refmap"`
	Estimator EstimatorConfig `mapstructure:"estimator"`
	Markets   MarketsConfig   `mapstructure:"markets"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity to the price store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

// RefMapConfig locates the static node/market/hub reference spreadsheet.
type RefMapConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

// EstimatorConfig sets the default estimation parameters.
type EstimatorConfig struct {
	LookbackYears int     `mapstructure:"lookback_years"`
	ClipQuantile  float64 `mapstructure:"clip_quantile"`
	ZeroMean      bool    `mapstructure:"zero_mean"`
	PriceType     string  `mapstructure:"price_type"` // DA or RT
}

// MarketsConfig allows per-market hub node overrides.
type MarketsConfig struct {
	HubNodes map[string]string `mapstructure:"hub_nodes"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LMPSHAPERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lmpshapers")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.query_timeout", "2m")

	v.SetDefault("refmap.sheet", "Price Map")

	v.SetDefault("estimator.lookback_years", 2)
	v.SetDefault("estimator.clip_quantile", 1.0)
	v.SetDefault("estimator.zero_mean", true)
	v.SetDefault("estimator.price_type", "DA")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs sanity checks on the configuration values before any
// estimation starts.
func (c *Config) Validate() error {
	if c.Estimator.LookbackYears < 1 {
		return fmt.Errorf("estimator.lookback_years must be at least 1")
	}
	if c.Estimator.ClipQuantile <= 0 || c.Estimator.ClipQuantile > 1 {
		return fmt.Errorf("estimator.clip_quantile must be in (0, 1]")
	}
	switch c.Estimator.PriceType {
	case "DA", "RT":
	default:
		return fmt.Errorf("estimator.price_type must be DA or RT")
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("database.query_timeout cannot be negative")
	}
	return nil
}

// HubNode resolves the reference hub for a market, honouring any configured
// override before the built-in default.
func (c *Config) HubNode(marketID, fallback string) string {
	if node, ok := c.Markets.HubNodes[marketID]; ok && node != "" {
		return node
	}
	return fallback
}
