package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --endpoint
// on both "uigen generate" and "uigen serve").
type Flag struct {
	// Name is the long flag name (e.g. "endpoint").
	Name string

	// Shorthand is the one-letter short flag (e.g. "e"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "api.endpoint").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddFloatFlag, AddIntFlag
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagEndpoint         = "endpoint"
	FlagModel            = "model"
	FlagProvider         = "provider"
	FlagTemperature      = "temperature"
	FlagMaxTokens        = "max-tokens"
	FlagTopP             = "top-p"
	FlagFrequencyPenalty = "frequency-penalty"
	FlagCatalog          = "catalog"
	FlagListen           = "listen"
)

// UpstreamFlags lists the registry keys shared by every command that talks
// to the upstream API.
var UpstreamFlags = []string{
	FlagEndpoint,
	FlagModel,
	FlagProvider,
	FlagTemperature,
	FlagMaxTokens,
	FlagTopP,
	FlagFrequencyPenalty,
	FlagCatalog,
}

// Registry is the FlagSet used by the uigen commands.
var Registry = FlagSet{
	FlagEndpoint:         {Name: "endpoint", Shorthand: "e", ViperKey: "api.endpoint", Description: "Chat completions endpoint URL"},
	FlagModel:            {Name: "model", Shorthand: "m", ViperKey: "api.model", Description: "Model name sent with each request"},
	FlagProvider:         {Name: "provider", ViperKey: "api.provider", Description: "Upstream API flavor (openai)"},
	FlagTemperature:      {Name: "temperature", ViperKey: "generation.temperature", Description: "Sampling temperature"},
	FlagMaxTokens:        {Name: "max-tokens", ViperKey: "generation.max_tokens", Description: "Maximum tokens to generate"},
	FlagTopP:             {Name: "top-p", ViperKey: "generation.top_p", Description: "Nucleus sampling probability mass"},
	FlagFrequencyPenalty: {Name: "frequency-penalty", ViperKey: "generation.frequency_penalty", Description: "Penalty for repeated tokens"},
	FlagCatalog:          {Name: "catalog", ViperKey: "prompt.catalog_path", Description: "Path to a component catalog YAML file (default: built-in)"},
	FlagListen:           {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the HTTP server to listen on"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloatFlag registers a float64 flag on cmd from the given FlagSet.
func AddFloatFlag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetFloat64(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaults returns a viper instance holding only NewDefaultConfig values.
func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
