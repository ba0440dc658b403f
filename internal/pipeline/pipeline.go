package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/segment"
	"reelsmith/internal/services"
)

// BlockMatcher proposes source blocks for a concept. Its output is validated
// by the pipeline before use.
type BlockMatcher interface {
	MatchBlocks(ctx context.Context, item *concept.Concept, blocks []segment.Block) ([]concept.MatchedBlock, error)
}

// ScriptExtractor assembles the verbatim script and its chunk deconstruction.
type ScriptExtractor interface {
	Extract(ctx context.Context, item *concept.Concept, blocks []segment.Block) (string, []concept.ScriptChunk, error)
}

// Indexer resolves script chunks to word-id ranges deterministically,
// mutating the chunks in place.
type Indexer interface {
	Index(ctx context.Context, concepts []*concept.Concept, blocks []segment.Block)
}

// FallbackIndexer resolves one chunk the deterministic indexer gave up on.
type FallbackIndexer interface {
	ResolveChunk(ctx context.Context, chunk concept.ScriptChunk, block segment.Block) (int, int, error)
}

// ScriptEvaluator scores a finished script.
type ScriptEvaluator interface {
	Evaluate(ctx context.Context, script, longFormSummary string) (*concept.Evaluation, error)
}

// ScriptRecommender suggests improvements based on an evaluation.
type ScriptRecommender interface {
	Recommend(ctx context.Context, item *concept.Concept, script, longFormSummary string, evaluation *concept.Evaluation) ([]concept.Recommendation, error)
}

// RunnerConfig wires the collaborators and concurrency bound of a Runner.
// Recommender is optional; everything else is required.
type RunnerConfig struct {
	Matcher     BlockMatcher
	Extractor   ScriptExtractor
	Indexer     Indexer
	Fallback    FallbackIndexer
	Evaluator   ScriptEvaluator
	Recommender ScriptRecommender
	Workers     int
	Logger      *slog.Logger
}

// Runner drives the per-concept stages over a bounded worker pool.
type Runner struct {
	cfg    RunnerConfig
	logger *slog.Logger
}

// NewRunner validates the configuration and returns a Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Matcher == nil || cfg.Extractor == nil || cfg.Indexer == nil || cfg.Fallback == nil || cfg.Evaluator == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new_runner",
			"matcher, extractor, indexer, fallback and evaluator are required", nil)
	}
	if cfg.Workers <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new_runner",
			fmt.Sprintf("worker count must be positive, got %d", cfg.Workers), nil)
	}
	return &Runner{cfg: cfg, logger: logging.NewComponentLogger(cfg.Logger, "pipeline")}, nil
}

// Run processes every concept concurrently and returns when all have reached
// a terminal status. The returned slice is the input slice: concepts are
// mutated in place and stay in submission order. Blocks and the summary are
// shared read-only across workers.
func (r *Runner) Run(ctx context.Context, concepts []*concept.Concept, blocks []segment.Block, longFormSummary string) []*concept.Concept {
	if len(concepts) == 0 {
		return concepts
	}

	lookup := segment.Lookup(blocks)
	workers := r.cfg.Workers
	if workers > len(concepts) {
		workers = len(concepts)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				r.processOne(ctx, concepts[i], blocks, lookup, longFormSummary)
			}
		}()
	}
	for i := range concepts {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return concepts
}

// processOne runs all stages for a single concept. Any error or panic marks
// this concept as failed without affecting the others.
func (r *Runner) processOne(ctx context.Context, item *concept.Concept, blocks []segment.Block, lookup map[string]segment.Block, longFormSummary string) {
	ctx = services.WithConcept(ctx, item.TitleID)
	logger := logging.WithContext(ctx, r.logger)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while processing concept", slog.Any("panic", rec))
			item.Status = concept.StatusError
			item.ErrorMessage = fmt.Sprintf("internal error: %v", rec)
		}
	}()

	logger.Info("processing concept", slog.String(logging.FieldConcept, item.TitleID))
	if err := r.runStages(ctx, logger, item, blocks, lookup, longFormSummary); err != nil {
		logger.Error("concept failed", slog.String("error", err.Error()))
		item.Status = concept.StatusError
		item.ErrorMessage = err.Error()
		return
	}
	item.Status = concept.StatusSuccess
	logger.Info("concept processed")
}

func (r *Runner) runStages(ctx context.Context, logger *slog.Logger, item *concept.Concept, blocks []segment.Block, lookup map[string]segment.Block, longFormSummary string) error {
	matches, err := r.cfg.Matcher.MatchBlocks(ctx, item, blocks)
	if err != nil {
		// Recoverable matcher failures degrade to zero matched blocks.
		if !errors.Is(err, services.ErrExternalService) && !errors.Is(err, services.ErrTransient) {
			return err
		}
		logger.Warn("block matching failed, continuing with no matches", slog.String("error", err.Error()))
		matches = nil
	}
	item.MatchedBlocks, item.MatchedBlocksDuration = ValidateMatches(logger, matches, lookup)

	script, chunks, err := r.cfg.Extractor.Extract(ctx, item, blocks)
	if err != nil {
		return err
	}
	item.Script = script
	item.ScriptChunks = chunks

	r.cfg.Indexer.Index(ctx, []*concept.Concept{item}, blocks)
	r.fallbackIndex(ctx, logger, item, lookup)

	if item.Script != "" {
		evaluation, err := r.cfg.Evaluator.Evaluate(ctx, item.Script, longFormSummary)
		if err != nil {
			return err
		}
		item.Evaluation = evaluation
	}

	if r.cfg.Recommender != nil && item.Evaluation != nil {
		recs, err := r.cfg.Recommender.Recommend(ctx, item, item.Script, longFormSummary, item.Evaluation)
		if err != nil {
			logger.Warn("recommendation stage failed", slog.String("error", err.Error()))
		} else {
			item.Recommendations = recs
		}
	}
	return nil
}

// fallbackIndex routes still-unresolved chunks through the model indexer.
// A chunk the fallback cannot resolve stays unresolved for the formatter to
// skip; it never fails the concept.
func (r *Runner) fallbackIndex(ctx context.Context, logger *slog.Logger, item *concept.Concept, lookup map[string]segment.Block) {
	unresolved := item.UnresolvedChunks()
	if len(unresolved) == 0 {
		return
	}
	logger.Info("falling back to model indexing", slog.Int("chunks", len(unresolved)))

	for _, i := range unresolved {
		chunk := &item.ScriptChunks[i]
		block, ok := lookup[chunk.SourceBlockID]
		if !ok {
			logger.Warn("unresolved chunk references unknown block",
				slog.String(logging.FieldBlock, chunk.SourceBlockID))
			continue
		}
		start, end, err := r.cfg.Fallback.ResolveChunk(ctx, *chunk, block)
		if err != nil {
			logger.Warn("fallback indexing failed for chunk",
				slog.String(logging.FieldBlock, chunk.SourceBlockID),
				slog.String("error", err.Error()))
			continue
		}
		chunk.Resolve(start, end)
	}
}

// ValidateMatches checks the matcher's candidates against the real blocks:
// the id must exist and the preview must prefix the block's text. It returns
// the annotated matches and the summed duration of the validated ones.
func ValidateMatches(logger *slog.Logger, matches []concept.MatchedBlock, lookup map[string]segment.Block) ([]concept.MatchedBlock, float64) {
	if len(matches) == 0 {
		return nil, 0
	}
	validated := make([]concept.MatchedBlock, 0, len(matches))
	var totalDuration float64
	for _, match := range matches {
		match.Validated = false
		block, ok := lookup[match.BlockID]
		switch {
		case !ok:
			logger.Warn("matched block does not exist",
				slog.String(logging.FieldBlock, match.BlockID))
		case !previewMatches(block.Text, match.Preview):
			logger.Warn("matched block preview does not match block text",
				slog.String(logging.FieldBlock, match.BlockID))
		default:
			match.Validated = true
			totalDuration += block.EndTime - block.StartTime
		}
		validated = append(validated, match)
	}
	return validated, totalDuration
}

func previewMatches(blockText, preview string) bool {
	return strings.HasPrefix(strings.TrimSpace(blockText), strings.TrimSpace(preview))
}
