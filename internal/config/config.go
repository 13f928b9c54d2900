package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix namespaces environment overrides, e.g. PDFRENAME_LLM_MODEL.
const EnvPrefix = "PDFRENAME"

type Config struct {
	Strategy    string    `mapstructure:"strategy"`
	LLM         LLMConfig `mapstructure:"llm"`
	MaxTitleLen int       `mapstructure:"max_title_len"`
	MaxPathLen  int       `mapstructure:"max_path_len"`
	DryRun      bool      `mapstructure:"dry_run"`
	Report      string    `mapstructure:"report"`
	Log         LogConfig `mapstructure:"log"`
}

type LLMConfig struct {
	Provider  string        `mapstructure:"provider"`
	URL       string        `mapstructure:"url"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// defaults mirror the behaviour of a bare invocation with no flags.
var defaults = map[string]any{
	"strategy":       "first-line",
	"llm.provider":   "ollama",
	"llm.url":        "",
	"llm.model":      "llama2",
	"llm.api_key":    "",
	"llm.timeout":    time.Duration(0),
	"llm.max_tokens": 0,
	"max_title_len":  50,
	"max_path_len":   260,
	"dry_run":        false,
	"report":         "",
	"log.level":      "info",
	"log.format":     "text",
}

// FlagKeys maps CLI flag names to config keys.
var FlagKeys = map[string]string{
	"strategy":      "strategy",
	"provider":      "llm.provider",
	"llm-url":       "llm.url",
	"model":         "llm.model",
	"api-key":       "llm.api_key",
	"llm-timeout":   "llm.timeout",
	"max-tokens":    "llm.max_tokens",
	"max-title-len": "max_title_len",
	"max-path-len":  "max_path_len",
	"dry-run":       "dry_run",
	"report":        "report",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// Load resolves configuration from, lowest to highest precedence: built-in
// defaults, the YAML file at cfgFile (skipped when empty), PDFRENAME_*
// environment variables, and flags explicitly set on the command line.
// flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if filepath.Ext(cfgFile) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// ConfigFileFromEnv returns the config file named by PDFRENAME_CONFIG, if any.
func ConfigFileFromEnv() string {
	return os.Getenv(EnvPrefix + "_CONFIG")
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error

	switch c.Strategy {
	case "first-line", "model":
	default:
		err = multierr.Append(err, fmt.Errorf("strategy: unknown value %q (first-line, model)", c.Strategy))
	}

	if c.Strategy == "model" {
		switch c.LLM.Provider {
		case "ollama", "openai":
		default:
			err = multierr.Append(err, fmt.Errorf("llm.provider: unknown value %q (ollama, openai)", c.LLM.Provider))
		}
		if strings.TrimSpace(c.LLM.Model) == "" {
			err = multierr.Append(err, fmt.Errorf("llm.model: must not be empty"))
		}
	}
	if c.LLM.Timeout < 0 {
		err = multierr.Append(err, fmt.Errorf("llm.timeout: must not be negative"))
	}
	if c.LLM.MaxTokens < 0 {
		err = multierr.Append(err, fmt.Errorf("llm.max_tokens: must not be negative"))
	}
	if c.MaxTitleLen < 1 {
		err = multierr.Append(err, fmt.Errorf("max_title_len: must be at least 1, got %d", c.MaxTitleLen))
	}
	if c.MaxPathLen < 1 {
		err = multierr.Append(err, fmt.Errorf("max_path_len: must be at least 1, got %d", c.MaxPathLen))
	}

	if c.Report != "" {
		switch strings.ToLower(filepath.Ext(c.Report)) {
		case ".yaml", ".yml", ".json":
		default:
			err = multierr.Append(err, fmt.Errorf("report: %q must end in .yaml, .yml or .json", c.Report))
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "":
	default:
		err = multierr.Append(err, fmt.Errorf("log.format: unknown value %q (text, json)", c.Log.Format))
	}

	return err
}
