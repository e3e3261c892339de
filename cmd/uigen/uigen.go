// Package uigencmder
package uigencmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/uigen/cmd/uigen/auth"
	componentscmder "github.com/papercomputeco/uigen/cmd/uigen/components"
	configcmder "github.com/papercomputeco/uigen/cmd/uigen/config"
	generatecmder "github.com/papercomputeco/uigen/cmd/uigen/generate"
	historycmder "github.com/papercomputeco/uigen/cmd/uigen/history"
	initcmder "github.com/papercomputeco/uigen/cmd/uigen/init"
	servecmder "github.com/papercomputeco/uigen/cmd/uigen/serve"
	versioncmder "github.com/papercomputeco/uigen/cmd/version"
)

const uigenLongDesc string = `uigen turns a plain-language description into a React component
styled with Tailwind classes, streamed live from any OpenAI-compatible
chat completions API.

Generate components using:
  uigen generate "a pricing card"   Print one component to stdout
  uigen generate                    Start an interactive session
  uigen serve                       Stream generations over HTTP

Set up a project with:
  uigen init --preset openai
  uigen auth`

const uigenShortDesc string = "uigen - streaming UI component generator"

func NewUigenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "uigen",
		Short:         uigenShortDesc,
		Long:          uigenLongDesc,
		SilenceUsage:  true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .uigen/ directory location")

	// Add subcommands
	cmd.AddCommand(generatecmder.NewGenerateCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(componentscmder.NewComponentsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
