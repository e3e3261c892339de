package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent uigen configuration stored as config.toml
// in the .uigen/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	API        APIConfig        `toml:"api"`
	Generation GenerationConfig `toml:"generation"`
	Prompt     PromptConfig     `toml:"prompt"`
	Server     ServerConfig     `toml:"server"`
}

// APIConfig holds the upstream chat completions API settings.
type APIConfig struct {
	Provider  string `toml:"provider,omitempty"`
	Endpoint  string `toml:"endpoint,omitempty"`
	Model     string `toml:"model,omitempty"`
	AuthToken string `toml:"auth_token,omitempty"`
}

// GenerationConfig holds the sampling parameters sent with each request.
type GenerationConfig struct {
	Temperature      float64 `toml:"temperature"`
	MaxTokens        int     `toml:"max_tokens"`
	TopP             float64 `toml:"top_p"`
	FrequencyPenalty float64 `toml:"frequency_penalty"`
}

// PromptConfig holds system prompt settings.
type PromptConfig struct {
	// CatalogPath overrides the embedded component catalog.
	CatalogPath string `toml:"catalog_path,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.provider": {
		get: func(c *Config) string { return c.API.Provider },
		set: func(c *Config, v string) error { c.API.Provider = v; return nil },
	},
	"api.endpoint": {
		get: func(c *Config) string { return c.API.Endpoint },
		set: func(c *Config, v string) error { c.API.Endpoint = v; return nil },
	},
	"api.model": {
		get: func(c *Config) string { return c.API.Model },
		set: func(c *Config, v string) error { c.API.Model = v; return nil },
	},
	"api.auth_token": {
		get: func(c *Config) string { return c.API.AuthToken },
		set: func(c *Config, v string) error { c.API.AuthToken = v; return nil },
	},
	"generation.temperature": {
		get: func(c *Config) string { return formatFloat(c.Generation.Temperature) },
		set: func(c *Config, v string) error {
			f, err := parseFloatInRange(v, 0, 2)
			if err != nil {
				return fmt.Errorf("invalid value for generation.temperature: %w", err)
			}
			c.Generation.Temperature = f
			return nil
		},
	},
	"generation.max_tokens": {
		get: func(c *Config) string { return strconv.Itoa(c.Generation.MaxTokens) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for generation.max_tokens: %w", err)
			}
			if n <= 0 {
				return fmt.Errorf("invalid value for generation.max_tokens: must be positive, got %d", n)
			}
			c.Generation.MaxTokens = n
			return nil
		},
	},
	"generation.top_p": {
		get: func(c *Config) string { return formatFloat(c.Generation.TopP) },
		set: func(c *Config, v string) error {
			f, err := parseFloatInRange(v, 0, 1)
			if err != nil {
				return fmt.Errorf("invalid value for generation.top_p: %w", err)
			}
			c.Generation.TopP = f
			return nil
		},
	},
	"generation.frequency_penalty": {
		get: func(c *Config) string { return formatFloat(c.Generation.FrequencyPenalty) },
		set: func(c *Config, v string) error {
			f, err := parseFloatInRange(v, -2, 2)
			if err != nil {
				return fmt.Errorf("invalid value for generation.frequency_penalty: %w", err)
			}
			c.Generation.FrequencyPenalty = f
			return nil
		},
	},
	"prompt.catalog_path": {
		get: func(c *Config) string { return c.Prompt.CatalogPath },
		set: func(c *Config, v string) error { c.Prompt.CatalogPath = v; return nil },
	},
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloatInRange(v string, lo, hi float64) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f < lo || f > hi {
		return 0, fmt.Errorf("must be between %s and %s, got %s", formatFloat(lo), formatFloat(hi), formatFloat(f))
	}
	return f, nil
}
