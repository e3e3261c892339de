// Package componentscmder provides the components command for inspecting the
// component catalog and the system prompt built from it.
package componentscmder

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/config"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

type componentsCommander struct {
	catalog string
	names   bool
	system  bool

	settings *config.Config
	out      io.Writer
}

const componentsLongDesc string = `List the components the model is told it may import.

Without --catalog (or prompt.catalog_path in config.toml) the built-in
catalog is used. On a terminal the catalog is rendered as styled markdown;
otherwise plain markdown is printed.

Examples:
  uigen components
  uigen components --names
  uigen components --catalog ./catalog.yaml --system-prompt`

const componentsShortDesc string = "List the component catalog"

func NewComponentsCmd() *cobra.Command {
	cmder := &componentsCommander{}

	cmd := &cobra.Command{
		Use:   "components",
		Short: componentsShortDesc,
		Long:  componentsLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			settings, err := config.Resolve(cmd, configDir, []string{config.FlagCatalog})
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.settings = settings

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Registry, config.FlagCatalog, &cmder.catalog)
	cmd.Flags().BoolVar(&cmder.names, "names", false, "Print only component names, one per line")
	cmd.Flags().BoolVar(&cmder.system, "system-prompt", false, "Print the full system prompt sent with each generation")

	return cmd
}

func (c *componentsCommander) run() error {
	catalog, err := prompt.LoadCatalog(c.settings.Prompt.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	switch {
	case c.names:
		for _, name := range catalog.Names() {
			fmt.Fprintln(c.out, name)
		}
		return nil

	case c.system:
		system, err := prompt.SystemPrompt(catalog)
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, system)
		if !strings.HasSuffix(system, "\n") {
			fmt.Fprintln(c.out)
		}
		return nil
	}

	doc := catalog.Markdown()
	if f, ok := c.out.(*os.File); ok && cliui.IsTerminal(f) {
		// Unrendered markdown is still readable.
		doc, _ = cliui.RenderMarkdown(doc)
	}

	fmt.Fprint(c.out, doc)
	return nil
}
