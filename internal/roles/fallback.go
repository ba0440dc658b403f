package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/segment"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
	"reelsmith/internal/textutil"
	"reelsmith/internal/transcript"
)

// FallbackIndexer resolves script chunks the deterministic indexer could not,
// typically because the script corrected a stutter or small wording slip. The
// block is presented to the model in a mapped word|id format and the model
// reconstructs the chunk in the same format; the ids are parsed back out.
type FallbackIndexer struct {
	client Completer
	logger *slog.Logger
}

func NewFallbackIndexer(client Completer, logger *slog.Logger) *FallbackIndexer {
	return &FallbackIndexer{client: client, logger: logging.NewComponentLogger(logger, RoleFallbackIndexer)}
}

type fallbackPayload struct {
	MappedChunk string `json:"mapped_chunk"`
}

// ResolveChunk returns the inclusive internal word-id range for the chunk
// within its source block.
func (f *FallbackIndexer) ResolveChunk(ctx context.Context, chunk concept.ScriptChunk, block segment.Block) (int, int, error) {
	logger := logging.WithContext(ctx, f.logger)
	logger.Info("fallback indexing chunk",
		slog.String(logging.FieldBlock, block.ID),
		slog.String("chunk_preview", textutil.Truncate(chunk.Text, 30)))

	mapped, known := mapBlockWords(block)
	if mapped == "" {
		return 0, 0, services.Wrap(services.ErrValidation, RoleFallbackIndexer, "resolve",
			"source block has no words", nil)
	}

	userPrompt := fmt.Sprintf("Mapped block:\n%s\n\nScript chunk:\n%s", mapped, chunk.Text)
	content, err := f.client.CompleteJSON(ctx, fallbackIndexerSystemPrompt, userPrompt)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalService, RoleFallbackIndexer, "complete", "fallback request failed", err)
	}

	var payload fallbackPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return 0, 0, services.Wrap(services.ErrExternalService, RoleFallbackIndexer, "decode", "unusable fallback payload", err)
	}

	start, end, err := parseMappedChunk(payload.MappedChunk, known)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalService, RoleFallbackIndexer, "parse", "invalid mapped chunk", err)
	}
	return start, end, nil
}

// mapBlockWords renders the block's word tokens as word|id pairs and returns
// the set of valid ids for response checking.
func mapBlockWords(block segment.Block) (string, map[int]bool) {
	var parts []string
	known := make(map[int]bool)
	for _, tok := range block.Words {
		if tok.Type == transcript.TypeSpacing {
			continue
		}
		parts = append(parts, tok.Text, strconv.Itoa(tok.ID))
		known[tok.ID] = true
	}
	return strings.Join(parts, "|"), known
}

// parseMappedChunk extracts the first and last word ids from a word|id|word|id
// string, rejecting ids that do not belong to the source block or ranges that
// run backwards.
func parseMappedChunk(mapped string, known map[int]bool) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(mapped), "|")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return 0, 0, fmt.Errorf("malformed mapped chunk %q", mapped)
	}
	var ids []int
	for i := 1; i < len(parts); i += 2 {
		id, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0, 0, fmt.Errorf("mapped chunk id %q is not numeric", parts[i])
		}
		if !known[id] {
			return 0, 0, fmt.Errorf("mapped chunk id %d not in source block", id)
		}
		ids = append(ids, id)
	}
	start, end := ids[0], ids[len(ids)-1]
	if end < start {
		return 0, 0, fmt.Errorf("mapped chunk range %d..%d runs backwards", start, end)
	}
	return start, end, nil
}
