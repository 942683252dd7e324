package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// IndexPreset is a named instrument offered to users by default.
type IndexPreset struct {
	Name   string `yaml:"name" json:"name"`
	Symbol string `yaml:"symbol" json:"symbol"`
}

// WatchEntry is one scheduled analysis.
type WatchEntry struct {
	Symbol      string `yaml:"symbol"`
	Provider    string `yaml:"provider"`
	ShortPeriod int    `yaml:"short_period"`
	LongPeriod  int    `yaml:"long_period"`
	WindowDays  int    `yaml:"window_days"`
	Cron        string `yaml:"cron"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Providers struct {
		AlphaVantage struct {
			APIKey string `yaml:"api_key"`
		} `yaml:"alphavantage"`
		VsTrader struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"vstrader"`
		Mock struct {
			Enabled bool    `yaml:"enabled"`
			Price   float64 `yaml:"price"`
		} `yaml:"mock"`
		LookbackDays int           `yaml:"lookback_days"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"providers"`
	Defaults struct {
		Symbol      string `yaml:"symbol"`
		Provider    string `yaml:"provider"`
		ShortPeriod int    `yaml:"short_period"`
		LongPeriod  int    `yaml:"long_period"`
		WindowDays  int    `yaml:"window_days"`
	} `yaml:"defaults"`
	Indices []IndexPreset `yaml:"indices"`
	Watch   []WatchEntry  `yaml:"watch"`
	Server  struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	// ALPHA_VANTAGE_API_KEY is the older name, honoured when the new one is unset
	for _, name := range []string{"ALPHAVANTAGE_API_KEY", "ALPHA_VANTAGE_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			c.Providers.AlphaVantage.APIKey = v
			break
		}
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		c.Providers.VsTrader.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		c.Providers.VsTrader.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		c.Providers.FetchTimeout = d
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOOKBACK_DAYS: %w", err)
		}
		c.Providers.LookbackDays = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Defaults.Symbol == "" {
		c.Defaults.Symbol = "^GDAXI"
	}
	if c.Defaults.Provider == "" {
		c.Defaults.Provider = "yahoo"
	}
	if c.Defaults.ShortPeriod == 0 {
		c.Defaults.ShortPeriod = 190
	}
	if c.Defaults.LongPeriod == 0 {
		c.Defaults.LongPeriod = 212
	}
	if c.Defaults.WindowDays == 0 {
		c.Defaults.WindowDays = 365
	}
	if c.Providers.LookbackDays == 0 {
		c.Providers.LookbackDays = 1095
	}
	if c.Providers.FetchTimeout == 0 {
		c.Providers.FetchTimeout = 30 * time.Second
	}
	if c.Providers.Mock.Price == 0 {
		c.Providers.Mock.Price = 100
	}
	if len(c.Indices) == 0 {
		c.Indices = []IndexPreset{
			{Name: "DAX", Symbol: "^GDAXI"},
			{Name: "Euro Stoxx 50", Symbol: "^STOXX50E"},
			{Name: "NASDAQ 100", Symbol: "QQQ"},
			{Name: "S&P 500", Symbol: "SPY"},
			{Name: "Nikkei 225", Symbol: "^N225"},
		}
	}
	for i := range c.Watch {
		w := &c.Watch[i]
		if w.Provider == "" {
			w.Provider = c.Defaults.Provider
		}
		if w.ShortPeriod == 0 {
			w.ShortPeriod = c.Defaults.ShortPeriod
		}
		if w.LongPeriod == 0 {
			w.LongPeriod = c.Defaults.LongPeriod
		}
		if w.WindowDays == 0 {
			w.WindowDays = c.Defaults.WindowDays
		}
		if w.Cron == "" {
			w.Cron = "0 30 22 * * 1-5"
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Defaults.ShortPeriod <= 0 || c.Defaults.LongPeriod <= 0 || c.Defaults.WindowDays <= 0 {
		return fmt.Errorf("defaults: periods and window_days must be positive")
	}
	if c.Providers.LookbackDays <= 0 {
		return fmt.Errorf("providers.lookback_days must be positive")
	}
	if c.Providers.FetchTimeout <= 0 {
		return fmt.Errorf("providers.fetch_timeout must be positive")
	}
	for i, w := range c.Watch {
		if strings.TrimSpace(w.Symbol) == "" {
			return fmt.Errorf("watch[%d].symbol is required", i)
		}
		if w.ShortPeriod <= 0 || w.LongPeriod <= 0 || w.WindowDays <= 0 {
			return fmt.Errorf("watch[%d]: periods and window_days must be positive", i)
		}
	}
	return nil
}

// ValidateWatch checks the extra settings needed by the watch command.
func (c *Config) ValidateWatch() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watch) == 0 {
		return fmt.Errorf("watch list is empty")
	}
	return nil
}
