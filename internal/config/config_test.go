package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should load defaults: %v", err)
	}
	if cfg.DataSource.Symbol != "BTCUSDT" {
		t.Errorf("default symbol: got %q", cfg.DataSource.Symbol)
	}
	if cfg.DataSource.Span != 120 {
		t.Errorf("default span: got %d", cfg.DataSource.Span)
	}
	if cfg.Prediction.PathCount != 5 {
		t.Errorf("default path count: got %d", cfg.Prediction.PathCount)
	}
	if cfg.Prediction.Backend != "scalar" {
		t.Errorf("default backend: got %q", cfg.Prediction.Backend)
	}
	if cfg.Schedule.PredictCron == "" || cfg.Schedule.SummaryCron == "" {
		t.Error("cron defaults missing")
	}
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: "tok"
  chat_id: "42"
data_source:
  symbol: ETHUSDT
  span: 60
prediction:
  path_count: 7
  backend: parallel
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Symbol != "ETHUSDT" || cfg.DataSource.Span != 60 {
		t.Errorf("data source not parsed: %+v", cfg.DataSource)
	}
	if cfg.Prediction.PathCount != 7 || cfg.Prediction.Backend != "parallel" {
		t.Errorf("prediction not parsed: %+v", cfg.Prediction)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "prediction:\n  path_count: 3\n")
	t.Setenv("PATH_COUNT", "9")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Prediction.PathCount != 9 {
		t.Errorf("env should override yaml path_count, got %d", cfg.Prediction.PathCount)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("env token not applied, got %q", cfg.Telegram.BotToken)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "telegram: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Telegram.BotToken = "tok"
		cfg.Telegram.ChatID = "42"
		cfg.Prediction.PathCount = 5
		cfg.Prediction.Backend = "scalar"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }, true},
		{"missing chat id", func(c *Config) { c.Telegram.ChatID = "" }, true},
		{"zero paths", func(c *Config) { c.Prediction.PathCount = 0 }, true},
		{"unknown backend", func(c *Config) { c.Prediction.Backend = "gpu" }, true},
		{"parallel backend", func(c *Config) { c.Prediction.Backend = "parallel" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
