package roles

import (
	"context"
	"fmt"
	"log/slog"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/segment"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
)

// BlockMatcher selects the transcript blocks that support one concept.
// Validation of the returned ids and previews happens in the pipeline, not
// here.
type BlockMatcher struct {
	client Completer
	logger *slog.Logger
}

func NewBlockMatcher(client Completer, logger *slog.Logger) *BlockMatcher {
	return &BlockMatcher{client: client, logger: logging.NewComponentLogger(logger, RoleBlockMatcher)}
}

type matcherPayload struct {
	MatchedBlocks []struct {
		BlockID string `json:"block_id"`
		Preview string `json:"block_preview"`
	} `json:"matched_blocks"`
}

// MatchBlocks returns the model's candidate blocks for the concept, unvalidated.
func (m *BlockMatcher) MatchBlocks(ctx context.Context, item *concept.Concept, blocks []segment.Block) ([]concept.MatchedBlock, error) {
	logger := logging.WithContext(ctx, m.logger)
	logger.Info("matching blocks for concept", slog.String(logging.FieldConcept, item.TitleID))

	userPrompt := fmt.Sprintf("Concept:\ntitle: %s\nlogline: %s\nnarrative: %s\n\nTranscript blocks:\n%s",
		item.Title, item.Logline, item.Narrative, renderBlocks(blocks))
	content, err := m.client.CompleteJSON(ctx, matcherSystemPrompt, userPrompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleBlockMatcher, "complete", "match request failed", err)
	}

	var payload matcherPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleBlockMatcher, "decode", "unusable match payload", err)
	}

	matches := make([]concept.MatchedBlock, 0, len(payload.MatchedBlocks))
	for _, match := range payload.MatchedBlocks {
		matches = append(matches, concept.MatchedBlock{
			BlockID: match.BlockID,
			Preview: match.Preview,
		})
	}
	return matches, nil
}
