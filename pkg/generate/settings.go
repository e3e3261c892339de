package generate

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/papercomputeco/uigen/pkg/config"
	"github.com/papercomputeco/uigen/pkg/llm/provider"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

// FromSettings builds a Config from resolved uigen settings, loading the
// provider and the component catalog they name.
func FromSettings(s *config.Config, log *slog.Logger, raw io.Writer) (Config, error) {
	p, err := provider.New(s.API.Provider)
	if err != nil {
		return Config{}, err
	}

	catalog, err := prompt.LoadCatalog(s.Prompt.CatalogPath)
	if err != nil {
		return Config{}, fmt.Errorf("loading catalog: %w", err)
	}

	return Config{
		Endpoint:         s.API.Endpoint,
		Model:            s.API.Model,
		AuthToken:        s.API.AuthToken,
		Temperature:      s.Generation.Temperature,
		MaxTokens:        s.Generation.MaxTokens,
		TopP:             s.Generation.TopP,
		FrequencyPenalty: s.Generation.FrequencyPenalty,
		Provider:         p,
		Catalog:          catalog,
		Logger:           log,
		RawOutput:        raw,
	}, nil
}
