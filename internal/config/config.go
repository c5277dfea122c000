package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Symbol  string `yaml:"symbol"`
		Span    int    `yaml:"span"` // number of heatmap rows to request
	} `yaml:"data_source"`
	Prediction struct {
		PathCount int    `yaml:"path_count"`
		Backend   string `yaml:"backend"` // "scalar" or "parallel"
		StateFile string `yaml:"state_file"`
	} `yaml:"prediction"`
	Schedule struct {
		PredictCron string `yaml:"predict_cron"`
		SummaryCron string `yaml:"summary_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HEATMAP_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HEATMAP_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PATH_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Prediction.PathCount = n
		}
	}
	if v := os.Getenv("PREDICT_BACKEND"); v != "" {
		cfg.Prediction.Backend = v
	}
	if v := os.Getenv("CRON_PREDICT"); v != "" {
		cfg.Schedule.PredictCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "BTCUSDT"
	}
	if cfg.DataSource.Span == 0 {
		cfg.DataSource.Span = 120
	}
	if cfg.Prediction.PathCount == 0 {
		cfg.Prediction.PathCount = 5
	}
	if cfg.Prediction.Backend == "" {
		cfg.Prediction.Backend = "scalar"
	}
	if cfg.Prediction.StateFile == "" {
		cfg.Prediction.StateFile = "data/signal_state.json"
	}
	if cfg.Schedule.PredictCron == "" {
		cfg.Schedule.PredictCron = "0 */15 * * * *"
	}
	if cfg.Schedule.SummaryCron == "" {
		cfg.Schedule.SummaryCron = "0 0 8 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/liquiditylens.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Prediction.PathCount < 1 {
		return fmt.Errorf("prediction.path_count must be at least 1")
	}
	if b := c.Prediction.Backend; b != "scalar" && b != "parallel" {
		return fmt.Errorf("prediction.backend must be %q or %q, got %q", "scalar", "parallel", b)
	}
	return nil
}
