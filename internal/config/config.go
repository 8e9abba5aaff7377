package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/llama-swappo/swappo/internal/constants"
)

const EnvPrefix = "SWAPPO"

type DashboardConfig struct {
	Port string `mapstructure:"port"`
	Dir  string `mapstructure:"dir"`
}

type BenchConfig struct {
	Pause time.Duration `mapstructure:"pause"`
	Suite string        `mapstructure:"suite"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type Config struct {
	// API selects the protocol, "openai" or "ollama".
	API      string        `mapstructure:"api"`
	BaseURL  string        `mapstructure:"base_url"`
	ApiKey   string        `mapstructure:"api_key"`
	LogLevel string        `mapstructure:"log_level"`
	Timeout  time.Duration `mapstructure:"timeout"`

	MaxTokens    int    `mapstructure:"max_tokens"`
	Stream       bool   `mapstructure:"stream"`
	DefaultModel string `mapstructure:"default_model"`
	// Models adds or overrides model aliases, alias -> model id.
	Models      map[string]string `mapstructure:"models"`
	HistoryFile string            `mapstructure:"history_file"`

	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Bench     BenchConfig     `mapstructure:"bench"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"api":           "api",
	"base-url":      "base_url",
	"api-key":       "api_key",
	"log-level":     "log_level",
	"timeout":       "timeout",
	"max-tokens":    "max_tokens",
	"stream":        "stream",
	"history-file":  "history_file",
	"dashboard-dir": "dashboard#dir",
	"suite":         "bench#suite",
	"pause":         "bench#pause",
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	// Have to use custom key delimiter to allow for models with periods in the name
	v := viper.NewWithOptions(
		viper.KeyDelimiter("#"),
		viper.EnvKeyReplacer(strings.NewReplacer("#", "_")),
	)
	v.SetEnvPrefix(EnvPrefix)

	v.SetDefault("api", constants.APIOpenAI)
	v.SetDefault("base_url", constants.DefaultEndpoint)
	v.SetDefault("ollama#endpoint", constants.DefaultOllamaEndpoint)
	v.SetDefault("api_key", constants.DefaultApiKey)
	// empty lets each command pick its own level
	v.SetDefault("log_level", "")
	v.SetDefault("timeout", constants.DefaultTimeout)
	v.SetDefault("max_tokens", constants.DefaultMaxTokens)
	v.SetDefault("stream", true)
	v.SetDefault("default_model", constants.DefaultModel)
	v.SetDefault("models", map[string]string{})
	v.SetDefault("history_file", defaultHistoryFile())
	v.SetDefault("dashboard#port", constants.DefaultDashboardPort)
	v.SetDefault("dashboard#dir", constants.DefaultDashboardDir)
	v.SetDefault("bench#pause", constants.DefaultBenchPause)
	v.SetDefault("bench#suite", "")

	v.AutomaticEnv()
	return v
}

// BindFlags binds every known flag present in fs to its config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "error binding flag %s", name)
		}
	}
	return nil
}

// Load reads .env, then the config file, and unmarshals the result. Without an
// explicit path a config.yaml in the working directory is used when present.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "error loading .env")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}
	switch cfg.API {
	case constants.APIOpenAI:
		if cfg.BaseURL == "" {
			return nil, errors.New("base_url is required")
		}
	case constants.APIOllama:
		if cfg.Ollama.Endpoint == "" {
			return nil, errors.New("ollama#endpoint is required")
		}
	default:
		return nil, errors.Errorf("unknown api %q, use %s or %s", cfg.API, constants.APIOpenAI, constants.APIOllama)
	}
	return &cfg, nil
}

func defaultHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "swappo", "chat_history")
}
