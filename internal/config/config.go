package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Gateway   GatewayConfig   `toml:"gateway"`
	DB        DBConfig        `toml:"db"`
	Trace     TraceConfig     `toml:"trace"`
}

type LLMConfig struct {
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type EmbeddingConfig struct {
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Dimensions int    `toml:"dimensions"`
	CacheSize  int    `toml:"cache_size"`
}

type GatewayConfig struct {
	Addr string `toml:"addr"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

type TraceConfig struct {
	Endpoint string `toml:"endpoint"`
	URLPath  string `toml:"url_path"`
	APIKey   string `toml:"api_key"`
}

// Load returns built-in defaults overlaid with the user's config file, if
// one exists. The defaults point at a local Ollama serving its
// OpenAI-compatible API.
func Load() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Model:          "llama3.2:3b",
			BaseURL:        "http://localhost:11434/v1",
			TimeoutSeconds: 120,
		},
		Embedding: EmbeddingConfig{
			Model:     "nomic-embed-text",
			CacheSize: 10000,
		},
		Gateway: GatewayConfig{
			Addr: ":8486",
		},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
	}

	path := configPath()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// The embedding endpoint usually lives on the same server as the chat
	// model; fall back to the chat settings when not set explicitly.
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = cfg.LLM.BaseURL
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = cfg.LLM.APIKey
	}

	return cfg, nil
}

func configPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "goodfoods", "config.toml")
}

func defaultDBPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "goodfoods", "goodfoods.db")
}
