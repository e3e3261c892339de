package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/uigen/pkg/dotdir"
)

// EnvPrefix is the prefix of environment variables read by InitViper.
const EnvPrefix = "UIGEN"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the UIGEN_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (UIGEN_API_ENDPOINT, UIGEN_API_AUTH_TOKEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: UIGEN_API_MODEL, UIGEN_SERVER_LISTEN, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Resolve runs InitViper for configDir, binds the given registry flags of cmd
// and returns the merged Config.
func Resolve(cmd *cobra.Command, configDir string, registryKeys []string) (*Config, error) {
	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}

	BindRegisteredFlags(v, cmd, Registry, registryKeys)

	return FromViper(v), nil
}

// FromViper materializes a Config from the merged viper view.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		API: APIConfig{
			Provider:  v.GetString("api.provider"),
			Endpoint:  v.GetString("api.endpoint"),
			Model:     v.GetString("api.model"),
			AuthToken: v.GetString("api.auth_token"),
		},
		Generation: GenerationConfig{
			Temperature:      v.GetFloat64("generation.temperature"),
			MaxTokens:        v.GetInt("generation.max_tokens"),
			TopP:             v.GetFloat64("generation.top_p"),
			FrequencyPenalty: v.GetFloat64("generation.frequency_penalty"),
		},
		Prompt: PromptConfig{
			CatalogPath: v.GetString("prompt.catalog_path"),
		},
		Server: ServerConfig{
			Listen: v.GetString("server.listen"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
//
// Keys without a default are still registered so AutomaticEnv can see them.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.provider", d.API.Provider)
	v.SetDefault("api.endpoint", d.API.Endpoint)
	v.SetDefault("api.model", d.API.Model)
	v.SetDefault("api.auth_token", d.API.AuthToken)

	// Generation
	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("generation.max_tokens", d.Generation.MaxTokens)
	v.SetDefault("generation.top_p", d.Generation.TopP)
	v.SetDefault("generation.frequency_penalty", d.Generation.FrequencyPenalty)

	// Prompt
	v.SetDefault("prompt.catalog_path", d.Prompt.CatalogPath)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
}
