package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Survey source
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Schema classification
	ExcludeKeywords  []string `mapstructure:"exclude_keywords" yaml:"exclude_keywords"`
	CollabKeywords   []string `mapstructure:"collab_keywords" yaml:"collab_keywords"`
	PackedSampleRows int      `mapstructure:"packed_sample_rows" yaml:"packed_sample_rows"`
	PackedTopTokens  int      `mapstructure:"packed_top_tokens" yaml:"packed_top_tokens"`

	// Rendering and export
	Theme         string `mapstructure:"theme" yaml:"theme"`
	ExportDir     string `mapstructure:"export_dir" yaml:"export_dir"`
	IncludeCharts bool   `mapstructure:"include_charts" yaml:"include_charts"`

	// Assistant
	AssistantProvider   string `mapstructure:"assistant_provider" yaml:"assistant_provider"`
	AssistantModel      string `mapstructure:"assistant_model" yaml:"assistant_model"`
	AssistantName       string `mapstructure:"assistant_name" yaml:"assistant_name"`
	AssistantSampleRows int    `mapstructure:"assistant_sample_rows" yaml:"assistant_sample_rows"`
	ModelsCatalog       string `mapstructure:"models_catalog" yaml:"models_catalog"`
	GeminiAPIKey        string `mapstructure:"gemini_api_key" yaml:"gemini_api_key"`
	OpenRouterAPIKey    string `mapstructure:"openrouter_api_key" yaml:"openrouter_api_key"`
	AnthropicAPIKey     string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	OpenAIAPIKey        string `mapstructure:"openai_api_key" yaml:"openai_api_key"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost string `mapstructure:"ollama_host" yaml:"ollama_host"`
}

// Dir returns ~/.surveydash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".surveydash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.surveydash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	// API keys live in this file
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SURVEYDASH")
	v.AutomaticEnv()

	setDefaults(v)

	// Provider keys also honor the vendors' conventional variables.
	_ = v.BindEnv("gemini_api_key", "SURVEYDASH_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("openrouter_api_key", "SURVEYDASH_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("anthropic_api_key", "SURVEYDASH_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("openai_api_key", "SURVEYDASH_OPENAI_API_KEY", "OPENAI_API_KEY")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Defaults returns the built-in configuration, ignoring files and environment.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	// Defaults are plain values of the right types, so decoding cannot fail.
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", "DBTA_GP2_Survey_JSO.xlsx")
	v.SetDefault("sheet_name", "Cleaned Data")
	v.SetDefault("exclude_keywords", []string{"name", "respondent", "email", "phone", "id", "contact"})
	v.SetDefault("collab_keywords", []string{"collaborat"})
	v.SetDefault("packed_sample_rows", 500)
	v.SetDefault("packed_top_tokens", 20)
	v.SetDefault("theme", "light")
	v.SetDefault("export_dir", "reports")
	v.SetDefault("include_charts", true)
	v.SetDefault("assistant_provider", "gemini")
	v.SetDefault("assistant_model", "gemini-2.5-flash")
	v.SetDefault("assistant_name", "Survey Analyst")
	v.SetDefault("assistant_sample_rows", 10)
	v.SetDefault("models_catalog", "")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
}

// APIKey returns the stored key for a provider; local runtimes have none.
func (c *Global) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey
	case "openrouter":
		return c.OpenRouterAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	}
	return ""
}

// Set assigns a single key from its string form, validating numbers, booleans and enums.
func (c *Global) Set(key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "sheet_name":
		c.SheetName = val
	case "exclude_keywords":
		c.ExcludeKeywords = splitList(val)
	case "collab_keywords":
		c.CollabKeywords = splitList(val)
	case "packed_sample_rows":
		return setInt(&c.PackedSampleRows, key, val)
	case "packed_top_tokens":
		return setInt(&c.PackedTopTokens, key, val)
	case "theme":
		switch strings.ToLower(val) {
		case "light", "dark":
			c.Theme = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid theme: %s (use light or dark)", val)
		}
	case "export_dir":
		c.ExportDir = val
	case "include_charts":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for include_charts: %v", val)
		}
		c.IncludeCharts = b
	case "assistant_provider":
		switch strings.ToLower(val) {
		case "gemini", "openrouter", "ollama", "anthropic", "openai":
			c.AssistantProvider = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid assistant_provider: %s (use gemini, openrouter, ollama, anthropic or openai)", val)
		}
	case "assistant_model":
		c.AssistantModel = val
	case "assistant_name":
		c.AssistantName = val
	case "assistant_sample_rows":
		return setInt(&c.AssistantSampleRows, key, val)
	case "models_catalog":
		c.ModelsCatalog = val
	case "gemini_api_key":
		c.GeminiAPIKey = val
	case "openrouter_api_key":
		c.OpenRouterAPIKey = val
	case "anthropic_api_key":
		c.AnthropicAPIKey = val
	case "openai_api_key":
		c.OpenAIAPIKey = val
	case "http_timeout_sec":
		return setInt(&c.HTTPTimeoutSec, key, val)
	case "retry_max_attempts":
		return setInt(&c.RetryMaxAttempts, key, val)
	case "retry_base_delay_ms":
		return setInt(&c.RetryBaseDelayMs, key, val)
	case "retry_max_delay_ms":
		return setInt(&c.RetryMaxDelayMs, key, val)
	case "ollama_host":
		c.OllamaHost = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, val string) error {
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return fmt.Errorf("invalid int for %s: %v", key, val)
	}
	*dst = i
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
