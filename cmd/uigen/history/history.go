// Package historycmder provides the history command for listing and clearing
// previously submitted prompts.
package historycmder

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/dotdir"
	"github.com/papercomputeco/uigen/pkg/utils"
)

type historyCommander struct {
	limit     int
	clear     bool
	jsonOut   bool
	configDir string

	manager *dotdir.Manager
	out     io.Writer
}

const historyLongDesc string = `List prompts previously sent with "uigen generate", newest first.

History is stored as history.json in the .uigen/ directory and keeps the
most recent 100 prompts.

Examples:
  uigen history
  uigen history -n 5
  uigen history --json
  uigen history --clear`

const historyShortDesc string = "List previous prompts"

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{
		manager: dotdir.NewManager(),
	}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.out = cmd.OutOrStdout()

			if cmder.clear {
				return cmder.runClear()
			}
			return cmder.runList()
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Number of prompts to show (0 for all)")
	cmd.Flags().BoolVar(&cmder.clear, "clear", false, "Delete the prompt history")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print entries as JSON")

	return cmd
}

func (c *historyCommander) runList() error {
	entries, err := c.manager.LoadHistory(c.configDir)
	if err != nil {
		return err
	}

	// Newest first.
	recent := make([]dotdir.HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		recent = append(recent, entries[i])
	}
	if c.limit > 0 && len(recent) > c.limit {
		recent = recent[:c.limit]
	}

	if c.jsonOut {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(recent)
	}

	if len(recent) == 0 {
		fmt.Fprintf(c.out, "%s No prompts yet.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	for i, entry := range recent {
		prompt := strings.Join(strings.Fields(entry.Prompt), " ")
		fmt.Fprintf(c.out, "%s  %s  %s  %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%3d", i+1)),
			cliui.DimStyle.Render(entry.At.Local().Format("2006-01-02 15:04")),
			cliui.KeyStyle.Render(entry.Model),
			utils.Truncate(prompt, 72),
		)
	}

	return nil
}

func (c *historyCommander) runClear() error {
	if err := c.manager.ClearHistory(c.configDir); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s Cleared prompt history.\n", cliui.SuccessMark)
	return nil
}
