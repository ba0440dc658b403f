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

// ScriptExtractor assembles a verbatim script for one concept from its
// matched blocks.
type ScriptExtractor struct {
	client Completer
	logger *slog.Logger
}

func NewScriptExtractor(client Completer, logger *slog.Logger) *ScriptExtractor {
	return &ScriptExtractor{client: client, logger: logging.NewComponentLogger(logger, RoleScriptExtractor)}
}

type extractorPayload struct {
	Script       string                `json:"script"`
	ScriptChunks []concept.ScriptChunk `json:"script_chunks"`
}

// Extract returns the final script text and its per-block chunk
// deconstruction. Only validated matched blocks are offered to the model.
func (e *ScriptExtractor) Extract(ctx context.Context, item *concept.Concept, blocks []segment.Block) (string, []concept.ScriptChunk, error) {
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("extracting verbatim script", slog.String(logging.FieldConcept, item.TitleID))

	selected := matchedBlocks(item, blocks)
	if len(selected) == 0 {
		return "", nil, services.Wrap(services.ErrValidation, RoleScriptExtractor, "extract",
			"no validated blocks to extract from", nil)
	}

	userPrompt := fmt.Sprintf("Concept:\ntitle: %s\nlogline: %s\n\nSource blocks:\n%s",
		item.Title, item.Logline, renderBlocks(selected))
	content, err := e.client.CompleteJSON(ctx, extractorSystemPrompt, userPrompt)
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalService, RoleScriptExtractor, "complete", "extraction request failed", err)
	}

	var payload extractorPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return "", nil, services.Wrap(services.ErrExternalService, RoleScriptExtractor, "decode", "unusable extraction payload", err)
	}

	script := strings.TrimSpace(payload.Script)
	if script == "" {
		return "", nil, services.Wrap(services.ErrExternalService, RoleScriptExtractor, "decode", "empty script", nil)
	}
	return script, payload.ScriptChunks, nil
}

// matchedBlocks returns the blocks referenced by the concept's validated
// matches, in transcript order.
func matchedBlocks(item *concept.Concept, blocks []segment.Block) []segment.Block {
	validated := make(map[string]bool, len(item.MatchedBlocks))
	for _, match := range item.MatchedBlocks {
		if match.Validated {
			validated[match.BlockID] = true
		}
	}
	var selected []segment.Block
	for _, block := range blocks {
		if validated[block.ID] {
			selected = append(selected, block)
		}
	}
	return selected
}
