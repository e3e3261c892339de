// Package servecmder provides the serve command, which exposes component
// generation over HTTP as a server-sent event stream.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/api"
	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/config"
	"github.com/papercomputeco/uigen/pkg/generate"
	"github.com/papercomputeco/uigen/pkg/logger"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

type serveCommander struct {
	listen           string
	endpoint         string
	model            string
	provider         string
	catalog          string
	temperature      float64
	topP             float64
	frequencyPenalty float64
	maxTokens        int

	allowOrigins string
	watch        bool
	logFile      string
	debug        bool

	settings *config.Config
	logger   *slog.Logger
}

const serveLongDesc string = `Run the uigen API server.

Endpoints:
  GET  /ping             Health check
  GET  /v1/components    The component catalog offered to the model
  POST /v1/generate      {"prompt": "..."} streamed back as server-sent events

Each generated fragment is sent as a data event holding {"content": "..."}.
A completed generation ends with "data: [DONE]"; a failed one ends with an
"error" event instead.

With --watch, edits to the catalog file given by --catalog are picked up
without a restart.

Examples:
  uigen serve
  uigen serve --listen :9000 --model gpt-4o
  uigen serve --catalog ./catalog.yaml --watch
  uigen serve --log-file uigen.jsonl`

const serveShortDesc string = "Run the uigen API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			keys := append([]string{config.FlagListen}, config.UpstreamFlags...)
			settings, err := config.Resolve(cmd, configDir, keys)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.settings = settings

			if cmder.watch && settings.Prompt.CatalogPath == "" {
				return errors.New("--watch requires a catalog file (--catalog or prompt.catalog_path)")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Registry, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Registry, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Registry, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Registry, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Registry, config.FlagCatalog, &cmder.catalog)
	config.AddFloatFlag(cmd, config.Registry, config.FlagTemperature, &cmder.temperature)
	config.AddFloatFlag(cmd, config.Registry, config.FlagTopP, &cmder.topP)
	config.AddFloatFlag(cmd, config.Registry, config.FlagFrequencyPenalty, &cmder.frequencyPenalty)
	config.AddIntFlag(cmd, config.Registry, config.FlagMaxTokens, &cmder.maxTokens)

	cmd.Flags().StringVar(&cmder.allowOrigins, "cors-origins", "", "Comma separated CORS allow-list (default: any origin)")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Reload the catalog file when it changes")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(cliui.IsTerminal(os.Stderr)),
	)
	c.logger = console

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		c.logger = logger.Multi(console, logger.New(
			logger.WithDebug(c.debug),
			logger.WithJSON(true),
			logger.WithWriter(f),
		))
	}
	c.logger = c.logger.With("service", "api")

	gcfg, err := generate.FromSettings(c.settings, c.logger, nil)
	if err != nil {
		return err
	}

	g, err := generate.New(gcfg)
	if err != nil {
		return err
	}

	server := api.NewServer(api.Config{
		ListenAddr:   c.settings.Server.Listen,
		AllowOrigins: c.allowOrigins,
	}, g, c.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	if c.watch {
		go func() {
			err := prompt.WatchCatalog(ctx, c.settings.Prompt.CatalogPath, c.logger, server.SetCatalog)
			if err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watching catalog: %w", err)
			}
		}()
	}

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		_ = server.Shutdown()
		return err
	case <-ctx.Done():
		c.logger.Info("received signal, shutting down")
		return server.Shutdown()
	}
}
