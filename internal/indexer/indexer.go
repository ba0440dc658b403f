package indexer

import (
	"context"
	"log/slog"
	"strings"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/match"
	"reelsmith/internal/segment"
	"reelsmith/internal/textutil"
	"reelsmith/internal/transcript"
)

const previewLimit = 30

// Indexer drives the sequence locator over every script chunk of every
// concept.
type Indexer struct {
	logger *slog.Logger
}

// New constructs an indexer. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger) *Indexer {
	return &Indexer{logger: logging.NewComponentLogger(logger, "indexer")}
}

// Index attempts to resolve every chunk of every concept against the supplied
// blocks, mutating the chunks in place. Chunks with malformed references or
// no locator match stay unresolved; a failure on one chunk never aborts its
// siblings.
func (ix *Indexer) Index(ctx context.Context, concepts []*concept.Concept, blocks []segment.Block) {
	blockIndex := segment.Lookup(blocks)
	logger := logging.WithContext(ctx, ix.logger)

	for _, item := range concepts {
		for i := range item.ScriptChunks {
			chunk := &item.ScriptChunks[i]
			span, ok := ix.locate(logger, chunk, blockIndex)
			if !ok {
				continue
			}
			chunk.Resolve(span.StartID, span.EndID)
		}
	}
}

func (ix *Indexer) locate(logger *slog.Logger, chunk *concept.ScriptChunk, blockIndex map[string]segment.Block) (match.Span, bool) {
	if chunk.SourceBlockID == "" || strings.TrimSpace(chunk.Text) == "" {
		logger.Warn("chunk missing source block or text, leaving unresolved",
			slog.String(logging.FieldBlock, chunk.SourceBlockID))
		return match.Span{}, false
	}
	block, ok := blockIndex[chunk.SourceBlockID]
	if !ok {
		logger.Warn("source block not found for chunk",
			slog.String(logging.FieldBlock, chunk.SourceBlockID))
		return match.Span{}, false
	}

	span, ok := match.Find(normalizeChunk(chunk.Text), NormalizeBlockWords(block))
	if !ok {
		logger.Warn("no deterministic match for chunk, deferring to fallback",
			slog.String(logging.FieldBlock, chunk.SourceBlockID),
			slog.String("chunk_preview", textutil.Truncate(chunk.Text, previewLimit)))
		return match.Span{}, false
	}
	return span, true
}

// NormalizeBlockWords produces the normalized comparison form of a block's
// non-spacing tokens, preserving internal ids.
func NormalizeBlockWords(block segment.Block) []match.Word {
	words := make([]match.Word, 0, len(block.Words))
	for _, tok := range block.Words {
		if tok.Type == transcript.TypeSpacing {
			continue
		}
		words = append(words, match.Word{ID: tok.ID, Text: match.NormalizeWord(tok.Text)})
	}
	return words
}

func normalizeChunk(text string) []match.Word {
	fields := strings.Fields(text)
	words := make([]match.Word, len(fields))
	for i, field := range fields {
		words[i] = match.Word{ID: i, Text: match.NormalizeWord(field)}
	}
	return words
}
