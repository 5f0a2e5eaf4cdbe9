package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the optimizer.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains the language-model provider configuration.
// Provider is "openai" or "azure"; the azure variant needs Endpoint and
// APIVersion and addresses models by deployment name.
type LLMConfig struct {
	Provider   string              `mapstructure:"provider"`
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Endpoint   string              `mapstructure:"endpoint"`
	APIVersion string              `mapstructure:"api_version"`
	Timeout    time.Duration       `mapstructure:"timeout"`
	Models     map[string]LLMModel `mapstructure:"models"`
}

// LLMModel represents a single model tier.
type LLMModel struct {
	Name string `mapstructure:"name"`
}

// Model tier keys. The plan generator picks between them from the subject;
// every other call uses the standard tier.
const (
	TierStandard = "standard"
	TierAdvanced = "advanced"
)

func (l LLMConfig) Validate() error {
	if _, ok := l.Models[TierStandard]; !ok {
		return fmt.Errorf("llm.models.%s is required", TierStandard)
	}
	if _, ok := l.Models[TierAdvanced]; !ok {
		return fmt.Errorf("llm.models.%s is required", TierAdvanced)
	}
	switch l.Provider {
	case "openai", "azure":
		return nil
	}
	return fmt.Errorf("unsupported llm.provider: %q", l.Provider)
}

// SearchConfig contains the search placeholder settings.
type SearchConfig struct {
	MaxResults int      `mapstructure:"max_results"`
	URLs       []string `mapstructure:"urls"`
}

// FetchConfig contains web-fetch and context-aggregation settings.
type FetchConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	PageCharLimit    int           `mapstructure:"page_char_limit"`
	ContextCharLimit int           `mapstructure:"context_char_limit"`
}

// StorageConfig selects the metrics sink backend: "sqlite" or "redis".
type StorageConfig struct {
	Backend string       `mapstructure:"backend"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Redis   RedisConfig  `mapstructure:"redis"`
}

// SQLiteConfig contains the embedded store settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig contains the document store settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", r.Host, port)
}

// TelemetryConfig contains monitoring settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file, falling back to defaults plus STACKR_*
// environment variables when no file is present. Credentials may also come
// from the bare OPENAI_API_KEY / AZURE_OPENAI_KEY / AZURE_OPENAI_ENDPOINT
// variables. Absent credentials are not an error here; calls fail when made.
func LoadConfig(path string) (*Config, error) {
	// Optional .env in the working directory; ignored if missing.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("general.debug", false)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_version", "2023-05-15")
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.models.standard.name", "gpt-35-turbo")
	v.SetDefault("llm.models.advanced.name", "gpt-4o")
	v.SetDefault("search.max_results", 3)
	v.SetDefault("search.urls", []string{
		"https://www.nerdwallet.com/best-credit-cards",
		"https://www.creditkarma.com/credit-cards/best-credit-cards",
		"https://www.forbes.com/advisor/credit-cards/best-credit-cards/",
	})
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.page_char_limit", 2000)
	v.SetDefault("fetch.context_char_limit", 4000)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.sqlite.path", "stackr.db")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("telemetry.enabled", true)

	if path == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("STACKR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults plus env carry the load.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		if cfg.LLM.Provider == "azure" {
			cfg.LLM.APIKey = os.Getenv("AZURE_OPENAI_KEY")
		} else {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}

	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
