// Package initcmder provides the init command for initializing a local .uigen
// directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/config"
)

const (
	dirName    = ".uigen"
	configFile = "config.toml"

	// maxRemoteConfig bounds a config.toml fetched with --preset <url>.
	maxRemoteConfig = 1 << 20
)

const initLongDesc string = `Initialize a new .uigen/ directory in the current working directory.

Creates a local .uigen/ directory that takes precedence over the default
~/.uigen/ directory for configuration and prompt history, along with a
config.toml holding the default settings.

Use --preset to start from a known upstream. A preset is either a name
(openai, together, ollama) or an http(s) URL serving a config.toml. A preset
always overwrites an existing config.toml; without one, an existing file is
kept.

Examples:
  uigen init
  uigen init --preset openai
  uigen init --preset https://example.com/team/uigen.toml`

const initShortDesc string = "Initialize a local .uigen/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), cmd.OutOrStdout(), preset)
		},
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Preset name ("+strings.Join(config.ValidPresetNames(), ", ")+") or URL of a config.toml")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInit(ctx context.Context, w io.Writer, preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .uigen directory: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var cfg *config.Config
	switch {
	case preset == "":
		if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
			fmt.Fprintf(w, "%s Already initialized: %s\n", cliui.SuccessMark, dir)
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
		cfg = config.NewDefaultConfig()

	case strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://"):
		cfg, err = fetchRemoteConfig(ctx, preset)
		if err != nil {
			return err
		}

	default:
		cfg, err = config.PresetConfig(preset)
		if err != nil {
			return err
		}
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Initialized %s\n", cliui.SuccessMark, cliui.DimStyle.Render(cfger.GetTarget()))
	if cfg.API.Endpoint != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("endpoint:"), cfg.API.Endpoint)
	}
	if cfg.API.Model != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("model:"), cfg.API.Model)
	}

	return nil
}

// fetchRemoteConfig downloads and validates a config.toml.
func fetchRemoteConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteConfig))
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
