package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"FinPanel/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Trades struct {
		Backend string `yaml:"backend"` // csv or clickhouse
		CSVPath string `yaml:"csv_path"`
		Table   string `yaml:"table"`
	} `yaml:"trades"`
	Market struct {
		StartDate      string            `yaml:"start_date"`      // history window start, YYYY-MM-DD
		TrackedSymbols map[string]string `yaml:"tracked_symbols"` // symbol -> display name
	} `yaml:"market"`
	Provider struct {
		BaseURL      string        `yaml:"base_url"`
		SymbolSuffix string        `yaml:"symbol_suffix"` // e.g. ".us" for stooq US listings
		Timeout      time.Duration `yaml:"timeout"`
		RateLimit    struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"provider"`
	QuoteCache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		MaxSize int           `yaml:"max_size"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"quote_cache"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("TRADES_CSV_PATH"); v != "" {
		c.Trades.CSVPath = v
	}
	if v := os.Getenv("TRADES_BACKEND"); v != "" {
		c.Trades.Backend = v
	}
	if v := os.Getenv("TRACKED_SYMBOLS"); v != "" {
		c.Market.TrackedSymbols = make(map[string]string)
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				c.Market.TrackedSymbols[s] = s
			}
		}
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.QuoteCache.Redis.Password = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Trades.Backend == "" {
		return fmt.Errorf("trades.backend is required")
	}
	if c.Trades.Backend != "csv" && c.Trades.Backend != "clickhouse" {
		return fmt.Errorf("trades.backend must be 'csv' or 'clickhouse', got '%s'", c.Trades.Backend)
	}
	if c.Trades.Backend == "csv" && c.Trades.CSVPath == "" {
		return fmt.Errorf("trades.csv_path is required for the csv backend")
	}
	if c.Trades.Backend == "clickhouse" && c.Trades.Table == "" {
		return fmt.Errorf("trades.table is required for the clickhouse backend")
	}
	if len(c.Market.TrackedSymbols) == 0 {
		return fmt.Errorf("market.tracked_symbols cannot be empty")
	}
	if _, ok := util.ParseDay(c.Market.StartDate); !ok {
		return fmt.Errorf("market.start_date must be YYYY-MM-DD, got '%s'", c.Market.StartDate)
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	return nil
}

// StartDay returns the configured history window start as a UTC day.
// Validate guarantees it parses.
func (c *Config) StartDay() time.Time {
	d, _ := util.ParseDay(c.Market.StartDate)
	return d
}

// Tracked returns the tracked symbols in lexical order.
func (c *Config) Tracked() []string {
	syms := make([]string, 0, len(c.Market.TrackedSymbols))
	for s := range c.Market.TrackedSymbols {
		syms = append(syms, s)
	}
	// stable order keeps fetch logs and tests deterministic
	sort.Strings(syms)
	return syms
}
