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

const EnvPrefix = "QUOTESEARCH"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Provider ProviderConfig `mapstructure:"provider"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CatalogConfig selects where suggestions come from. An empty Path uses the
// built-in catalog; an empty IndexPath keeps the bleve index in memory.
type CatalogConfig struct {
	Path      string `mapstructure:"path"`
	Engine    string `mapstructure:"engine"`
	IndexPath string `mapstructure:"index_path"`
}

type ProviderConfig struct {
	Name         string  `mapstructure:"name"`
	BaseURL      string  `mapstructure:"base_url"`
	Proxy        string  `mapstructure:"proxy"`
	Crumb        bool    `mapstructure:"crumb"`
	RateLimit    float64 `mapstructure:"rate_limit"`
	Burst        int     `mapstructure:"burst"`
	APIKey       string  `mapstructure:"api_key"`
	APIKeyHeader string  `mapstructure:"api_key_header"`
}

// CacheConfig controls the payload cache. A zero TTL disables it.
type CacheConfig struct {
	Size uint          `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.engine", "bleve")
	v.SetDefault("catalog.index_path", "")
	v.SetDefault("provider.name", "yahoo")
	v.SetDefault("provider.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("provider.proxy", "")
	v.SetDefault("provider.crumb", false)
	v.SetDefault("provider.rate_limit", 5.0)
	v.SetDefault("provider.burst", 5)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.api_key_header", "X-API-KEY")
	v.SetDefault("cache.size", 128)
	v.SetDefault("cache.ttl", "1m")
}

// Load reads .env files (missing ones are skipped), then the optional config
// file at path, then QUOTESEARCH_* environment variables. With no envFiles
// given, ".env" in the working directory is tried.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	cfg.Catalog.Engine = strings.ToLower(strings.TrimSpace(cfg.Catalog.Engine))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Provider.Name {
	case "yahoo", "financego":
	default:
		return fmt.Errorf("provider.name must be one of: yahoo, financego (got %q)", c.Provider.Name)
	}
	switch c.Catalog.Engine {
	case "memory", "bleve":
	default:
		return fmt.Errorf("catalog.engine must be one of: memory, bleve (got %q)", c.Catalog.Engine)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
