// Package configcmder provides the config command for managing persistent
// uigen configuration stored in the .uigen/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/pkg/config"
)

const configLongDesc string = `Manage persistent uigen configuration.

Configuration is stored as config.toml in the .uigen/ directory and provides
default values for command flags. CLI flags and UIGEN_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  api.provider, api.endpoint, api.model, api.auth_token,
  generation.temperature, generation.max_tokens,
  generation.top_p, generation.frequency_penalty,
  prompt.catalog_path, server.listen

Use subcommands to get, set, or list configuration values:
  uigen config set <key> <value>    Set a configuration value
  uigen config get <key>            Get a configuration value
  uigen config list                 List all configuration values

Examples:
  uigen config set api.model gpt-4o
  uigen config set generation.temperature 0.4
  uigen config get api.endpoint
  uigen config list`

const configShortDesc string = "Manage persistent uigen configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// display masks secret values.
func display(key, value string) string {
	if value == "" || !config.IsSecretKey(key) {
		return value
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "…" + value[len(value)-4:]
}
