// Package versioncmder
package versioncmder

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/utils"
)

type versionCommander struct {
	short bool
}

func NewVersionCmd() *cobra.Command {
	cmder := &versionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "displays version",
		Long:  "displays the version, commit and build time of this CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&cmder.short, "short", false, "Print only the version")

	return cmd
}

func (c *versionCommander) run(w io.Writer) error {
	if c.short {
		fmt.Fprintln(w, utils.Version)
		return nil
	}

	const width = 9
	fmt.Fprintln(w, cliui.KeyValue("Version:", utils.Version, width))
	fmt.Fprintln(w, cliui.KeyValue("Sha:", utils.Sha, width))
	fmt.Fprintln(w, cliui.KeyValue("Built at:", utils.Buildtime, width))
	fmt.Fprintln(w, cliui.KeyValue("Go:", runtime.Version(), width))
	return nil
}
