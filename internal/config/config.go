package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/agentctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel   = "info"
	defaultModel      = "llama2"
	defaultAPIBase    = "http://localhost:11434"
	defaultInterval   = 60
	defaultCacheSecs  = 5
	defaultConfigFile = "agentctl.json"
	defaultHistoryDB  = "/var/lib/agentctl/history.db"

	configFilePerm = 0o600
)

type Config struct {
	LLMModel            string `mapstructure:"llm_model" json:"llm_model"`
	APIBase             string `mapstructure:"api_base" json:"api_base"`
	SystemCheckInterval int    `mapstructure:"system_check_interval" json:"system_check_interval"`
	LogLevel            string `mapstructure:"log_level" json:"log_level"`
	CacheWindow         int    `mapstructure:"cache_window" json:"cache_window"`
	HistoryEnabled      bool   `mapstructure:"history_enabled" json:"history_enabled"`
	HistoryDB           string `mapstructure:"history_db" json:"history_db"`
	Background          bool   `mapstructure:"-" json:"-"`
}

func defaults() Config {
	return Config{
		LLMModel:            defaultModel,
		APIBase:             defaultAPIBase,
		SystemCheckInterval: defaultInterval,
		LogLevel:            DefaultLogLevel,
		CacheWindow:         defaultCacheSecs,
		HistoryEnabled:      false,
		HistoryDB:           defaultHistoryDB,
	}
}

// Load reads configuration from the JSON config file, environment and flags.
// A missing config file is created with the default values.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	config := defaults()

	fs := pflag.NewFlagSet("agentctl", pflag.ContinueOnError)
	configPath := fs.String("config", defaultConfigFile, "Path to the JSON configuration file")
	fs.Bool("background", false, "Run as a background service")
	fs.String("log-level", "", "Log level (debug, info, warning, error)")
	fs.Int("interval", 0, "Seconds between background system checks")
	fs.String("model", "", "Model name to request from the endpoint")
	fs.String("api-base", "", "Base URL of the model endpoint")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	path := *configPath
	if env := os.Getenv("AGENTCTL_CONFIG"); env != "" {
		path = env
	}

	if err := ensureConfigFile(path, &config); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	// Command line flags override config file values
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level":
			v.Set("log_level", f.Value.String())
		case "interval":
			v.Set("system_check_interval", f.Value.String())
		case "model":
			v.Set("llm_model", f.Value.String())
		case "api-base":
			v.Set("api_base", f.Value.String())
		}
	})

	if err := v.Unmarshal(&config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	background, err := fs.GetBool("background")
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	config.Background = background

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ensureConfigFile writes the default configuration when no file exists yet
func ensureConfigFile(path string, config *Config) error {
	errFactory := errors.New()

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errFactory.Wrap(errors.ErrWriteConfig, err)
		}
	}

	data, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err)
	}

	if err := os.WriteFile(path, data, configFilePerm); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err)
	}

	return nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.SystemCheckInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.SystemCheckInterval)
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.HistoryEnabled && c.HistoryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "history enabled without a database path")
	}

	return nil
}
