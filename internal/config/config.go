package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "REGIONPRICE"

type Server struct {
	Port              string `mapstructure:"port"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

type Storefront struct {
	URLTemplate           string   `mapstructure:"url_template"`
	UserAgent             string   `mapstructure:"user_agent"`
	TimeoutSec            int      `mapstructure:"timeout_sec"`
	MaxConcurrency        int      `mapstructure:"max_concurrency"`
	MaxRequestsPerMinute  int      `mapstructure:"max_requests_per_minute"`
	Burst                 int      `mapstructure:"burst"`
	MinRequestIntervalSec int      `mapstructure:"min_request_interval_sec"`
	CacheTTLSeconds       int      `mapstructure:"cache_ttl_sec"`
	CacheMaxItems         int      `mapstructure:"cache_max_items"`
	Regions               []string `mapstructure:"regions"`
}

type Rates struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// Redis enables the shared page cache when Address is set.
type Redis struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Database enables run history when URL is set.
type Database struct {
	URL string `mapstructure:"url"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Watch struct {
	Schedule   string `mapstructure:"schedule"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Config struct {
	Server     Server     `mapstructure:"server"`
	Storefront Storefront `mapstructure:"storefront"`
	Rates      Rates      `mapstructure:"rates"`
	Redis      Redis      `mapstructure:"redis"`
	Database   Database   `mapstructure:"database"`
	Logging    Logging    `mapstructure:"logging"`
	Watch      Watch      `mapstructure:"watch"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 60},
		Storefront: Storefront{
			URLTemplate:          "https://apps.apple.com/{region}/app/id{app}",
			TimeoutSec:           15,
			MaxRequestsPerMinute: 0,
			Burst:                1,
			CacheTTLSeconds:      0,
			CacheMaxItems:        2000,
		},
		Rates:   Rates{BaseURL: "https://open.er-api.com", TimeoutSec: 10},
		Logging: Logging{Level: "info", Format: "console"},
		Watch:   Watch{Schedule: "@every 6h", TimeoutSec: 300},
	}
}

func (s Storefront) Timeout() time.Duration { return time.Duration(s.TimeoutSec) * time.Second }
func (s Storefront) CacheTTL() time.Duration { return time.Duration(s.CacheTTLSeconds) * time.Second }
func (s Storefront) MinInterval() time.Duration { return time.Duration(s.MinRequestIntervalSec) * time.Second }
func (r Rates) Timeout() time.Duration { return time.Duration(r.TimeoutSec) * time.Second }
func (s Server) RequestTimeout() time.Duration { return time.Duration(s.RequestTimeoutSec) * time.Second }
func (w Watch) Timeout() time.Duration { return time.Duration(w.TimeoutSec) * time.Second }

// Load reads config from path (JSON, YAML or TOML by extension). If path is
// empty, config.{json,yaml} in the working directory is used when present.
// A .env file is loaded first, then REGIONPRICE_* environment variables
// override file values, e.g. REGIONPRICE_STOREFRONT_MAX_CONCURRENCY.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case path != "" && errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Storefront.MaxConcurrency < 0:
		return fmt.Errorf("storefront.max_concurrency must be >= 0")
	case c.Storefront.Burst < 0:
		return fmt.Errorf("storefront.burst must be >= 0")
	case c.Storefront.TimeoutSec <= 0:
		return fmt.Errorf("storefront.timeout_sec must be > 0")
	case c.Rates.TimeoutSec <= 0:
		return fmt.Errorf("rates.timeout_sec must be > 0")
	}
	return nil
}

// Every key needs a default for AutomaticEnv to reach it during Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)

	v.SetDefault("storefront.url_template", d.Storefront.URLTemplate)
	v.SetDefault("storefront.user_agent", d.Storefront.UserAgent)
	v.SetDefault("storefront.timeout_sec", d.Storefront.TimeoutSec)
	v.SetDefault("storefront.max_concurrency", d.Storefront.MaxConcurrency)
	v.SetDefault("storefront.max_requests_per_minute", d.Storefront.MaxRequestsPerMinute)
	v.SetDefault("storefront.burst", d.Storefront.Burst)
	v.SetDefault("storefront.min_request_interval_sec", d.Storefront.MinRequestIntervalSec)
	v.SetDefault("storefront.cache_ttl_sec", d.Storefront.CacheTTLSeconds)
	v.SetDefault("storefront.cache_max_items", d.Storefront.CacheMaxItems)
	v.SetDefault("storefront.regions", d.Storefront.Regions)

	v.SetDefault("rates.base_url", d.Rates.BaseURL)
	v.SetDefault("rates.timeout_sec", d.Rates.TimeoutSec)

	v.SetDefault("redis.address", d.Redis.Address)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)

	v.SetDefault("database.url", d.Database.URL)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("watch.schedule", d.Watch.Schedule)
	v.SetDefault("watch.timeout_sec", d.Watch.TimeoutSec)
}
