package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelsmith/internal/segment"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
)

// Role names as they appear in request service configurations.
const (
	RoleSummarizer        = "summarizer"
	RoleConceptGenerator  = "concept_generator"
	RoleBlockMatcher      = "concept_block_matcher"
	RoleScriptExtractor   = "verbatim_script_extractor"
	RoleFallbackIndexer   = "verbatim_indexer"
	RoleScriptEvaluator   = "script_evaluator"
	RoleScriptRecommender = "script_recommender"
)

// Completer is the slice of llm.Client the roles depend on. Tests substitute
// scripted completers.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Set bundles the collaborators needed to serve one generation request.
// Optional roles are nil when not configured.
type Set struct {
	Summarizer      *Summarizer
	Generator       *ConceptGenerator
	Matcher         *BlockMatcher
	Extractor       *ScriptExtractor
	FallbackIndexer *FallbackIndexer
	Evaluator       *ScriptEvaluator
	Recommender     *ScriptRecommender
}

// NewSet builds one client per configured role and wires it into the matching
// role implementation. Every name in required must have a configuration;
// a missing one is a validation error because the request cannot be served
// without it.
func NewSet(configs map[string]llm.Config, required []string, logger *slog.Logger, opts ...llm.Option) (*Set, error) {
	for _, name := range required {
		if _, ok := configs[name]; !ok {
			return nil, services.Wrap(services.ErrValidation, "roles", "new_set",
				fmt.Sprintf("no service configuration for required role %q", name), nil)
		}
	}

	set := &Set{}
	for name, cfg := range configs {
		client, err := llm.NewClient(cfg, opts...)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "roles", "new_set",
				fmt.Sprintf("building client for role %q", name), err)
		}
		switch name {
		case RoleSummarizer:
			set.Summarizer = NewSummarizer(client, logger)
		case RoleConceptGenerator:
			set.Generator = NewConceptGenerator(client, logger)
		case RoleBlockMatcher:
			set.Matcher = NewBlockMatcher(client, logger)
		case RoleScriptExtractor:
			set.Extractor = NewScriptExtractor(client, logger)
		case RoleFallbackIndexer:
			set.FallbackIndexer = NewFallbackIndexer(client, logger)
		case RoleScriptEvaluator:
			set.Evaluator = NewScriptEvaluator(client, logger)
		case RoleScriptRecommender:
			set.Recommender = NewScriptRecommender(client, logger)
		default:
			return nil, services.Wrap(services.ErrValidation, "roles", "new_set",
				fmt.Sprintf("unknown role %q in service configuration", name), nil)
		}
	}
	return set, nil
}

// renderBlocks formats transcript blocks for inclusion in a prompt, one block
// per line with its id, speaker and time range.
func renderBlocks(blocks []segment.Block) string {
	var b strings.Builder
	for _, block := range blocks {
		fmt.Fprintf(&b, "[%s] %s (%.2fs-%.2fs): %s\n",
			block.ID, block.Speaker, block.StartTime, block.EndTime, block.Text)
	}
	return b.String()
}
