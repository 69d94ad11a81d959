package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPort        = "5000"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2:1b"
)

type Config struct {
	Port        string `mapstructure:"port"`
	LogLevel    string `mapstructure:"log_level"`
	LogJSON     bool   `mapstructure:"log_json"`
	CORSOrigins string `mapstructure:"cors_allowed_origins"`

	Ollama OllamaConfig `mapstructure:",squash"`
}

type OllamaConfig struct {
	BaseURL      string        `mapstructure:"ollama_base_url"`
	Model        string        `mapstructure:"ollama_model"`
	Timeout      time.Duration `mapstructure:"ollama_timeout"`
	Wait         bool          `mapstructure:"ollama_wait"`
	WaitTimeout  time.Duration `mapstructure:"ollama_wait_timeout"`
	WaitInterval time.Duration `mapstructure:"ollama_wait_interval"`
	Pull         bool          `mapstructure:"ollama_pull"`
	EchoFallback bool          `mapstructure:"echo_fallback"`
}

// Load reads configuration from the environment, a .env file in the working
// directory if one exists, and configFile when it is not empty. Environment
// variables win over the file.
func Load(configFile string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Ollama.BaseURL = strings.TrimRight(cfg.Ollama.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("cors_allowed_origins", "*")

	v.SetDefault("ollama_base_url", DefaultOllamaURL)
	v.SetDefault("ollama_model", DefaultOllamaModel)
	v.SetDefault("ollama_timeout", time.Duration(0))
	v.SetDefault("ollama_wait", false)
	v.SetDefault("ollama_wait_timeout", 60*time.Second)
	v.SetDefault("ollama_wait_interval", 2*time.Second)
	v.SetDefault("ollama_pull", false)
	v.SetDefault("echo_fallback", false)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	u, err := url.Parse(c.Ollama.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("OLLAMA_BASE_URL is not a valid url: %q", c.Ollama.BaseURL)
	}
	if c.Ollama.Model == "" {
		return errors.New("OLLAMA_MODEL is required")
	}
	if c.Ollama.Timeout < 0 {
		return errors.New("OLLAMA_TIMEOUT must not be negative")
	}
	if c.Ollama.Wait && c.Ollama.WaitInterval <= 0 {
		return errors.New("OLLAMA_WAIT_INTERVAL must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas and whitespace.
func (c *Config) AllowedOrigins() []string {
	origins := strings.FieldsFunc(c.CORSOrigins, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
