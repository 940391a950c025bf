// Package config loads and persists the key-value configuration record the
// rest of the application treats as read-only during a single operation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultAPIBaseURL is the DeepSeek-compatible completion endpoint root.
	DefaultAPIBaseURL = "https://api.deepseek.com/v1"
	// DefaultChatlogBaseURL is where the local chat-log service listens.
	DefaultChatlogBaseURL = "http://127.0.0.1:5030/api/v1"

	// ModelChat and ModelReasoner are the two supported completion models.
	ModelChat     = "deepseek-chat"
	ModelReasoner = "deepseek-reasoner"
)

// Config carries the credentials and endpoints every component reads.
type Config struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	APIBaseURL     string `mapstructure:"api_url" yaml:"api_url"`
	Model          string `mapstructure:"model" yaml:"model"`
	ChatlogBaseURL string `mapstructure:"chatlog_service_url" yaml:"chatlog_service_url"`
}

// DefaultPath returns ~/.config/chatsum/config.yaml, falling back to the
// working directory when the home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "chatsum", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		APIBaseURL:     DefaultAPIBaseURL,
		Model:          ModelChat,
		ChatlogBaseURL: DefaultChatlogBaseURL,
	}
}

// Load reads the configuration at path. A missing file yields the defaults;
// unknown model values fall back to the default model.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api_key", "")
	v.SetDefault("api_url", DefaultAPIBaseURL)
	v.SetDefault("model", ModelChat)
	v.SetDefault("chatlog_service_url", DefaultChatlogBaseURL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Model != ModelChat && cfg.Model != ModelReasoner {
		cfg.Model = ModelChat
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.ChatlogBaseURL == "" {
		cfg.ChatlogBaseURL = DefaultChatlogBaseURL
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api_key", cfg.APIKey)
	v.Set("api_url", cfg.APIBaseURL)
	v.Set("model", cfg.Model)
	v.Set("chatlog_service_url", cfg.ChatlogBaseURL)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
