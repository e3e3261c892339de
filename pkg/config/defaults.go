package config

const (
	defaultProvider = "openai"
	defaultListen   = ":8080"

	defaultTemperature      = 0.2
	defaultMaxTokens        = 10000
	defaultTopP             = 1.0
	defaultFrequencyPenalty = 0.0
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
//
// Endpoint and model have no default: every deployment names its own.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Provider: defaultProvider,
		},
		Generation: GenerationConfig{
			Temperature:      defaultTemperature,
			MaxTokens:        defaultMaxTokens,
			TopP:             defaultTopP,
			FrequencyPenalty: defaultFrequencyPenalty,
		},
		Server: ServerConfig{
			Listen: defaultListen,
		},
	}
}
