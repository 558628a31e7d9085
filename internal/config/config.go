package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. It is loaded from an
// optional YAML file with ${VAR} expansion, then overlaid with environment
// variables so credentials never have to live in the file.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Auth struct {
		// DynamicEnvID scopes the issuer's JWKS endpoint.
		DynamicEnvID string `yaml:"dynamic_env_id"`
	} `yaml:"auth"`

	Browser struct {
		Headless  string `yaml:"headless"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"browser"`

	Amazon struct {
		BaseURL  string `yaml:"base_url"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"amazon"`

	GiftCard struct {
		ProductURL string `yaml:"product_url"`
		Email      string `yaml:"email"`
	} `yaml:"giftcard"`

	AI struct {
		Provider        string `yaml:"provider"` // "openai", "anthropic", "ollama" or "" for keyword-only
		Model           string `yaml:"model"`
		OpenAIAPIKey    string `yaml:"openai_api_key"`
		AnthropicAPIKey string `yaml:"anthropic_api_key"`
		OllamaBaseURL   string `yaml:"ollama_base_url"`
	} `yaml:"ai"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads configuration from path (may not exist), expands ${VAR}
// references, applies environment overrides and fills defaults.
func Load(path string) (Config, error) {
	var c Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
				return c, err
			}
		} else if !os.IsNotExist(err) {
			return c, err
		}
	}

	c.applyEnv()
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyEnv() {
	overlay(&c.Auth.DynamicEnvID, "DYNAMIC_ENV_ID")
	overlay(&c.Amazon.Email, "AMAZON_EMAIL")
	overlay(&c.Amazon.Password, "AMAZON_PASSWORD")
	overlay(&c.GiftCard.Email, "GIFTCARD_EMAIL")
	overlay(&c.AI.Provider, "AI_PROVIDER")
	overlay(&c.AI.Model, "AI_MODEL")
	overlay(&c.AI.OpenAIAPIKey, "OPENAI_API_KEY")
	overlay(&c.AI.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	overlay(&c.AI.OllamaBaseURL, "OLLAMA_BASE_URL")
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8488
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	}
	if c.Amazon.BaseURL == "" {
		c.Amazon.BaseURL = "https://www.amazon.com"
	}
	if c.GiftCard.ProductURL == "" {
		c.GiftCard.ProductURL = "https://www.bitrefill.com/us/en/gift-cards/amazon_com-usa/"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "./data/agentcart.db"
	}
}

// IsHeadless reports whether the browser should run headless (default true).
func (c Config) IsHeadless() bool {
	return parseBool(c.Browser.Headless, true)
}

// GiftCard email falls back to the Amazon account email like the original
// flow did.
func (c Config) GiftCardEmail() string {
	if c.GiftCard.Email != "" {
		return c.GiftCard.Email
	}
	return c.Amazon.Email
}

// parseBool parses a string as boolean with a default value.
// Accepts: "true", "1", "yes" as true; empty returns default.
func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
