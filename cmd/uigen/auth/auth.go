// Package authcmder provides the auth command for storing the upstream API
// token.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/uigen/pkg/cliui"
	"github.com/papercomputeco/uigen/pkg/config"
)

const tokenKey = "api.auth_token"

const authLongDesc string = `Store the API token sent to the upstream chat completions endpoint.

The token is saved as api.auth_token in config.toml in the .uigen/ directory
(written with owner-only permissions) and sent as a bearer token with every
generation request. UIGEN_API_AUTH_TOKEN overrides it.

On a terminal the token is read without echo. Otherwise the first line of
stdin is used.

Examples:
  uigen auth                     Prompt for the token
  echo $OPENAI_API_KEY | uigen auth
  uigen auth --status            Show whether a token is stored
  uigen auth --remove            Remove the stored token`

const authShortDesc string = "Store the upstream API token"

func NewAuthCmd() *cobra.Command {
	var (
		statusFlag bool
		removeFlag bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			switch {
			case statusFlag:
				return runStatus(cmd.OutOrStdout(), cfger)
			case removeFlag:
				return runRemove(cmd.OutOrStdout(), cfger)
			default:
				return runAuth(cmd.InOrStdin(), cmd.OutOrStdout(), cfger)
			}
		},
	}

	cmd.Flags().BoolVar(&statusFlag, "status", false, "Show whether a token is stored")
	cmd.Flags().BoolVar(&removeFlag, "remove", false, "Remove the stored token")
	cmd.MarkFlagsMutuallyExclusive("status", "remove")

	return cmd
}

func runAuth(in io.Reader, w io.Writer, cfger *config.Configer) error {
	token, err := readToken(in, w)
	if err != nil {
		return err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("API token cannot be empty")
	}

	if err := cfger.SetConfigValue(tokenKey, token); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Stored API token %s\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render("("+cfger.GetTarget()+")"),
	)
	return nil
}

func runStatus(w io.Writer, cfger *config.Configer) error {
	token, err := cfger.GetConfigValue(tokenKey)
	if err != nil {
		return err
	}

	if token == "" {
		fmt.Fprintf(w, "%s No API token stored. Use 'uigen auth' to store one.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Fprintf(w, "%s API token stored %s\n", cliui.SuccessMark, cliui.DimStyle.Render("(ends in "+token[max(len(token)-4, 0):]+")"))
	return nil
}

func runRemove(w io.Writer, cfger *config.Configer) error {
	if err := cfger.SetConfigValue(tokenKey, ""); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Removed API token.\n", cliui.SuccessMark)
	return nil
}

// readToken reads the token from in. If in is a terminal, it prompts with
// hidden input. Otherwise it reads the first line.
func readToken(in io.Reader, w io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && cliui.IsTerminal(f) {
		fmt.Fprint(w, "Enter API token: ")

		tokenBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading API token: %w", err)
		}

		return string(tokenBytes), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return "", errors.New("no input received on stdin")
}
