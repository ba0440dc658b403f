package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/segment"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
)

// ConceptGenerator proposes short-video concepts from the segmented
// transcript.
type ConceptGenerator struct {
	client Completer
	logger *slog.Logger
}

func NewConceptGenerator(client Completer, logger *slog.Logger) *ConceptGenerator {
	return &ConceptGenerator{client: client, logger: logging.NewComponentLogger(logger, RoleConceptGenerator)}
}

type generatedConcept struct {
	TitleID   string `json:"title_id"`
	Title     string `json:"title"`
	Logline   string `json:"logline"`
	Narrative string `json:"narrative_structure"`
}

type generatorPayload struct {
	Concepts []generatedConcept `json:"concepts"`
}

// Generate asks for numConcepts concepts grounded in the given blocks. The
// model may return fewer; extras beyond numConcepts are discarded.
func (g *ConceptGenerator) Generate(ctx context.Context, blocks []segment.Block, numConcepts int) ([]*concept.Concept, error) {
	logger := logging.WithContext(ctx, g.logger)
	logger.Info("generating concepts",
		slog.Int("requested", numConcepts),
		slog.Int("blocks", len(blocks)))

	userPrompt := fmt.Sprintf("Generate up to %d concepts.\n\nTranscript blocks:\n%s",
		numConcepts, renderBlocks(blocks))
	content, err := g.client.CompleteJSON(ctx, generatorSystemPrompt, userPrompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleConceptGenerator, "complete", "concept request failed", err)
	}

	var payload generatorPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleConceptGenerator, "decode", "unusable concept payload", err)
	}
	if len(payload.Concepts) > numConcepts {
		payload.Concepts = payload.Concepts[:numConcepts]
	}

	concepts := make([]*concept.Concept, 0, len(payload.Concepts))
	for i, generated := range payload.Concepts {
		titleID := strings.TrimSpace(generated.TitleID)
		if titleID == "" {
			titleID = fmt.Sprintf("concept_%02d", i+1)
		}
		concepts = append(concepts, &concept.Concept{
			TitleID:   titleID,
			Title:     strings.TrimSpace(generated.Title),
			Logline:   strings.TrimSpace(generated.Logline),
			Narrative: strings.TrimSpace(generated.Narrative),
			Status:    concept.StatusPending,
		})
	}
	logger.Info("concepts generated", slog.Int("count", len(concepts)))
	return concepts, nil
}
