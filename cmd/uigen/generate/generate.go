// Package generatecmder provides the generate command, which streams React
// components to stdout as the upstream model produces them.
package generatecmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/config"
	"github.com/papercomputeco/uigen/pkg/dotdir"
	"github.com/papercomputeco/uigen/pkg/generate"
	"github.com/papercomputeco/uigen/pkg/logger"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

type generateCommander struct {
	endpoint         string
	model            string
	provider         string
	catalog          string
	temperature      float64
	topP             float64
	frequencyPenalty float64
	maxTokens        int

	rawOut      string
	output      string
	interactive bool
	debug       bool
	configDir   string

	settings *config.Config
	logger   *slog.Logger
	history  *dotdir.Manager

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

const generateLongDesc string = `Generate a React component from a plain-language description.

Generated code is streamed to stdout as it arrives. Logs and status go to
stderr, so the output can be piped or redirected directly into a file.

The description is taken from the arguments. With no arguments, it is read
from stdin when stdin is not a terminal; otherwise an interactive session
starts where every line you enter is a new generation.

A generation that ends before the upstream sends its done marker still
prints what arrived, then exits with an error.

Examples:
  uigen generate "a login form with remember me"
  uigen generate -o Pricing.jsx "three tier pricing cards"
  echo "a dark mode toggle" | uigen generate
  uigen generate --model gpt-4o --temperature 0.5
  uigen generate --raw-out stream.log "a badge"`

const generateShortDesc string = "Generate a React component"

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{
		history: dotdir.NewManager(),
	}

	cmd := &cobra.Command{
		Use:     "generate [description...]",
		Aliases: []string{"gen"},
		Short:   generateShortDesc,
		Long:    generateLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			settings, err := config.Resolve(cmd, cmder.configDir, config.UpstreamFlags)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.settings = settings

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.stdin = cmd.InOrStdin()
			cmder.stdout = cmd.OutOrStdout()
			cmder.stderr = cmd.ErrOrStderr()

			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, config.Registry, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Registry, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Registry, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Registry, config.FlagCatalog, &cmder.catalog)
	config.AddFloatFlag(cmd, config.Registry, config.FlagTemperature, &cmder.temperature)
	config.AddFloatFlag(cmd, config.Registry, config.FlagTopP, &cmder.topP)
	config.AddFloatFlag(cmd, config.Registry, config.FlagFrequencyPenalty, &cmder.frequencyPenalty)
	config.AddIntFlag(cmd, config.Registry, config.FlagMaxTokens, &cmder.maxTokens)

	cmd.Flags().StringVar(&cmder.rawOut, "raw-out", "", "Write the raw upstream response stream to this file")
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Also write each completed component to this file")
	cmd.Flags().BoolVarP(&cmder.interactive, "interactive", "i", false, "Start an interactive session even when stdin is not a terminal")

	return cmd
}

func (c *generateCommander) run(ctx context.Context, args []string) error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(cliui.IsTerminal(os.Stderr)),
		logger.WithWriter(c.stderr),
	).With("service", "generate")

	var raw io.Writer
	if c.rawOut != "" {
		f, err := os.Create(c.rawOut)
		if err != nil {
			return fmt.Errorf("opening raw output: %w", err)
		}
		defer f.Close()
		raw = f
	}

	gcfg, err := generate.FromSettings(c.settings, c.logger, raw)
	if err != nil {
		return err
	}

	g, err := generate.New(gcfg)
	if err != nil {
		if errors.Is(err, generate.ErrMissingEndpoint) || errors.Is(err, generate.ErrMissingModel) {
			return fmt.Errorf("%w\n\nSet it with a flag, 'uigen config set', or 'uigen init --preset <name>'", err)
		}
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	input := strings.Join(args, " ")
	if input != "" {
		return c.once(ctx, g, input)
	}

	if c.interactive || c.stdinIsTerminal() {
		return c.repl(ctx, g)
	}

	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return prompt.ErrEmptyPrompt
	}

	return c.once(ctx, g, string(data))
}

func (c *generateCommander) stdinIsTerminal() bool {
	f, ok := c.stdin.(*os.File)
	return ok && cliui.IsTerminal(f)
}

// once runs a single generation. Partial output stays on stdout; the error
// makes the process exit non-zero.
func (c *generateCommander) once(ctx context.Context, g *generate.Generator, input string) error {
	result, err := c.generate(ctx, g, input)
	if err != nil {
		if result != nil && result.Text != "" {
			cliui.Warn(c.stderr, "output is incomplete (%d characters received)", len(result.Text))
		}
		return err
	}

	return nil
}

// repl reads one description per line until EOF or /exit.
func (c *generateCommander) repl(ctx context.Context, g *generate.Generator) error {
	fmt.Fprintf(c.stderr, "\n  %s %s\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(g.Model()),
	)
	fmt.Fprintf(c.stderr, "  %s\n\n", cliui.DimStyle.Render("Describe a component and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stderr, cliui.Prompt("uigen"))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		result, err := c.generate(ctx, g, input)
		if err != nil {
			fmt.Fprintf(c.stderr, "  %s %v\n\n", cliui.FailMark, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		fmt.Fprintf(c.stderr, "  %s %s\n\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render(fmt.Sprintf("%d characters in %s", len(result.Text), cliui.FormatDuration(result.Duration))),
		)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.stderr)
	return nil
}

// generate records input in the history, streams fragments to stdout and
// writes the finished text to the output file when one is set.
func (c *generateCommander) generate(ctx context.Context, g *generate.Generator, input string) (*generate.Result, error) {
	entry := dotdir.HistoryEntry{
		Prompt: strings.TrimSpace(input),
		Model:  g.Model(),
		At:     time.Now(),
	}
	if err := c.history.AppendHistory(entry, c.configDir); err != nil {
		c.logger.Warn("could not record prompt history", "error", err)
	}

	sink := generate.SinkFunc(func(text string) {
		fmt.Fprint(c.stdout, text)
	})

	result, err := g.Generate(ctx, input, sink)
	if result != nil && result.Text != "" && !strings.HasSuffix(result.Text, "\n") {
		fmt.Fprintln(c.stdout)
	}
	if err != nil {
		return result, err
	}

	c.logger.Debug("generation stats",
		"generation_id", result.ID,
		"stop_reason", result.StopReason,
		"frames", result.Stats.Frames,
		"malformed", result.Stats.Malformed,
	)

	if c.output != "" {
		if err := os.WriteFile(c.output, []byte(result.Text), 0o644); err != nil {
			return result, fmt.Errorf("writing output: %w", err)
		}
	}

	return result, nil
}
