package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/papercomputeco/uigen/pkg/llm"
)

// UserSuffix is appended to every user request.
const UserSuffix = "\n Please ONLY return code, NO backticks or language names , and use only tailwind classes no other imports. \n"

//go:embed system_prompt.tmpl
var systemPromptText string

var systemPromptTmpl = template.Must(template.New("system").
	Funcs(template.FuncMap{"trim": strings.TrimSpace}).
	Parse(systemPromptText))

// ErrEmptyPrompt is returned for blank user input.
var ErrEmptyPrompt = errors.New("input cannot be empty")

// SystemPrompt renders the system instructions followed by one <component>
// block per catalog entry.
func SystemPrompt(c *Catalog) (string, error) {
	if c == nil {
		c = &Catalog{}
	}

	var b strings.Builder
	if err := systemPromptTmpl.Execute(&b, c); err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}

	return b.String(), nil
}

// Messages returns the system and user messages for one generation. The
// input is sent as typed; only its blankness is checked.
func Messages(c *Catalog, input string) ([]llm.Message, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyPrompt
	}

	system, err := SystemPrompt(c)
	if err != nil {
		return nil, err
	}

	return []llm.Message{
		llm.NewTextMessage(llm.RoleSystem, system),
		llm.NewTextMessage(llm.RoleUser, input+UserSuffix),
	}, nil
}
