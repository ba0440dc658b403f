package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"reelsmith/internal/concept"
	"reelsmith/internal/indexer"
	"reelsmith/internal/logging"
	"reelsmith/internal/segment"
	"reelsmith/internal/services"
	"reelsmith/internal/transcript"
)

func testBlock(id string, words ...string) segment.Block {
	tokens := make([]transcript.Token, 0, len(words)*2)
	next := 0
	for _, text := range words {
		tokens = append(tokens, transcript.Token{ID: next, Text: text, Type: transcript.TypeWord})
		next++
		tokens = append(tokens, transcript.Token{ID: next, Text: " ", Type: transcript.TypeSpacing})
		next++
	}
	return segment.Block{
		ID: id, Speaker: "host",
		StartTime: 1.0, EndTime: 3.5,
		Text: strings.Join(words, " "), Words: tokens,
	}
}

type stubMatcher struct {
	mu         sync.Mutex
	err        error
	panicOn    string
	inFlight   atomic.Int32
	maxSeen    atomic.Int32
	matchesFor func(item *concept.Concept) []concept.MatchedBlock
}

func (m *stubMatcher) MatchBlocks(_ context.Context, item *concept.Concept, blocks []segment.Block) ([]concept.MatchedBlock, error) {
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if current <= seen || m.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	if m.panicOn != "" && item.TitleID == m.panicOn {
		panic("matcher exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.matchesFor != nil {
		return m.matchesFor(item), nil
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	block := blocks[0]
	preview := strings.Join(strings.Fields(block.Text)[:2], " ")
	return []concept.MatchedBlock{{BlockID: block.ID, Preview: preview}}, nil
}

type stubExtractor struct {
	script string
	chunks []concept.ScriptChunk
	errOn  string
}

func (e *stubExtractor) Extract(_ context.Context, item *concept.Concept, _ []segment.Block) (string, []concept.ScriptChunk, error) {
	if e.errOn != "" && item.TitleID == e.errOn {
		return "", nil, services.Wrap(services.ErrExternalService, "extractor", "extract", "model unavailable", nil)
	}
	chunks := make([]concept.ScriptChunk, len(e.chunks))
	copy(chunks, e.chunks)
	return e.script, chunks, nil
}

type stubFallback struct {
	calls atomic.Int32
	start int
	end   int
	err   error
}

func (f *stubFallback) ResolveChunk(_ context.Context, _ concept.ScriptChunk, _ segment.Block) (int, int, error) {
	f.calls.Add(1)
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.start, f.end, nil
}

type stubEvaluator struct {
	err error
}

func (e *stubEvaluator) Evaluate(_ context.Context, _, _ string) (*concept.Evaluation, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &concept.Evaluation{OverallScore: 4.0, Summary: "fine"}, nil
}

type stubRecommender struct {
	err error
}

func (r *stubRecommender) Recommend(_ context.Context, _ *concept.Concept, _, _ string, _ *concept.Evaluation) ([]concept.Recommendation, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []concept.Recommendation{{Title: "tighten hook", Detail: "open on the question"}}, nil
}

func newTestRunner(t *testing.T, cfg RunnerConfig) *Runner {
	t.Helper()
	if cfg.Indexer == nil {
		cfg.Indexer = indexer.New(nil)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(RunnerConfig{Workers: 2})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	_, err = NewRunner(RunnerConfig{
		Matcher:   &stubMatcher{},
		Extractor: &stubExtractor{},
		Indexer:   indexer.New(nil),
		Fallback:  &stubFallback{},
		Evaluator: &stubEvaluator{},
		Workers:   0,
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for zero workers, got %v", err)
	}
}

func TestRunHappyPath(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "the", "quick", "brown", "fox")}
	fallback := &stubFallback{}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{},
		Extractor: &stubExtractor{
			script: "quick brown fox",
			chunks: []concept.ScriptChunk{{Text: "quick brown fox", SourceBlockID: "block_000"}},
		},
		Fallback:  fallback,
		Evaluator: &stubEvaluator{},
	})

	concepts := []*concept.Concept{{TitleID: "c1", Title: "One", Status: concept.StatusPending}}
	results := runner.Run(context.Background(), concepts, blocks, "summary")

	item := results[0]
	if item.Status != concept.StatusSuccess {
		t.Fatalf("expected success, got %q (%s)", item.Status, item.ErrorMessage)
	}
	if len(item.MatchedBlocks) != 1 || !item.MatchedBlocks[0].Validated {
		t.Fatalf("expected one validated match, got %+v", item.MatchedBlocks)
	}
	if item.MatchedBlocksDuration != 2.5 {
		t.Fatalf("unexpected matched duration %v", item.MatchedBlocksDuration)
	}
	if !item.ScriptChunks[0].Resolved() {
		t.Fatal("chunk should resolve deterministically")
	}
	if fallback.calls.Load() != 0 {
		t.Fatal("fallback must not run when all chunks resolve")
	}
	if item.Evaluation == nil {
		t.Fatal("evaluation missing")
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "the", "quick", "brown", "fox")}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{},
		Extractor: &stubExtractor{
			script: "quick brown",
			chunks: []concept.ScriptChunk{{Text: "quick brown", SourceBlockID: "block_000"}},
			errOn:  "c2",
		},
		Fallback:  &stubFallback{},
		Evaluator: &stubEvaluator{},
	})

	concepts := []*concept.Concept{
		{TitleID: "c1", Status: concept.StatusPending},
		{TitleID: "c2", Status: concept.StatusPending},
		{TitleID: "c3", Status: concept.StatusPending},
	}
	results := runner.Run(context.Background(), concepts, blocks, "summary")

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if results[i].TitleID != want {
			t.Fatalf("submission order broken at %d: got %q", i, results[i].TitleID)
		}
	}
	if results[0].Status != concept.StatusSuccess || results[2].Status != concept.StatusSuccess {
		t.Fatal("siblings of a failed concept must still succeed")
	}
	if results[1].Status != concept.StatusError {
		t.Fatalf("expected c2 to fail, got %q", results[1].Status)
	}
	if results[1].ErrorMessage == "" {
		t.Fatal("failed concept must carry an error message")
	}
}

func TestRunRecoversPanics(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "a", "b")}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{panicOn: "boom"},
		Extractor: &stubExtractor{
			script: "a b",
			chunks: []concept.ScriptChunk{{Text: "a b", SourceBlockID: "block_000"}},
		},
		Fallback:  &stubFallback{},
		Evaluator: &stubEvaluator{},
	})

	concepts := []*concept.Concept{
		{TitleID: "boom", Status: concept.StatusPending},
		{TitleID: "safe", Status: concept.StatusPending},
	}
	results := runner.Run(context.Background(), concepts, blocks, "")

	if results[0].Status != concept.StatusError {
		t.Fatalf("panicking concept must end in error, got %q", results[0].Status)
	}
	if !strings.Contains(results[0].ErrorMessage, "internal error") {
		t.Fatalf("unexpected error message %q", results[0].ErrorMessage)
	}
	if results[1].Status != concept.StatusSuccess {
		t.Fatalf("sibling must survive a panic, got %q (%s)", results[1].Status, results[1].ErrorMessage)
	}
}

func TestRunFallbackResolvesLeftovers(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "the", "quick", "brown", "fox")}
	fallback := &stubFallback{start: 2, end: 4}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{},
		Extractor: &stubExtractor{
			script: "the qu- quick brown",
			chunks: []concept.ScriptChunk{{Text: "entirely different words", SourceBlockID: "block_000"}},
		},
		Fallback:  fallback,
		Evaluator: &stubEvaluator{},
	})

	concepts := []*concept.Concept{{TitleID: "c1", Status: concept.StatusPending}}
	results := runner.Run(context.Background(), concepts, blocks, "")

	chunk := results[0].ScriptChunks[0]
	if fallback.calls.Load() != 1 {
		t.Fatalf("expected one fallback call, got %d", fallback.calls.Load())
	}
	if !chunk.Resolved() || *chunk.StartWordIndex != 2 || *chunk.EndWordIndex != 4 {
		t.Fatalf("fallback result not applied: %+v", chunk)
	}
	if results[0].Status != concept.StatusSuccess {
		t.Fatalf("expected success, got %q", results[0].Status)
	}
}

func TestRunFallbackFailureLeavesChunkUnresolved(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "alpha", "bravo")}
	fallback := &stubFallback{err: errors.New("no mapping found")}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{},
		Extractor: &stubExtractor{
			script: "something",
			chunks: []concept.ScriptChunk{{Text: "unrelated", SourceBlockID: "block_000"}},
		},
		Fallback:  fallback,
		Evaluator: &stubEvaluator{},
	})

	results := runner.Run(context.Background(),
		[]*concept.Concept{{TitleID: "c1", Status: concept.StatusPending}}, blocks, "")

	if results[0].Status != concept.StatusSuccess {
		t.Fatalf("fallback miss must not fail the concept, got %q (%s)",
			results[0].Status, results[0].ErrorMessage)
	}
	if results[0].ScriptChunks[0].Resolved() {
		t.Fatal("chunk must stay unresolved after fallback failure")
	}
}

func TestRunMatcherFailureDegradesToNoMatches(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "a", "b")}
	matcherErr := services.Wrap(services.ErrExternalService, "matcher", "complete", "provider down", nil)
	runner := newTestRunner(t, RunnerConfig{
		Matcher:   &stubMatcher{err: matcherErr},
		Extractor: &stubExtractor{script: "a b", chunks: nil},
		Fallback:  &stubFallback{},
		Evaluator: &stubEvaluator{},
	})

	results := runner.Run(context.Background(),
		[]*concept.Concept{{TitleID: "c1", Status: concept.StatusPending}}, blocks, "")

	if len(results[0].MatchedBlocks) != 0 || results[0].MatchedBlocksDuration != 0 {
		t.Fatalf("expected no matches after matcher failure, got %+v", results[0].MatchedBlocks)
	}
	if results[0].Status != concept.StatusSuccess {
		t.Fatalf("recoverable matcher failure must not fail the concept, got %q", results[0].Status)
	}
}

func TestRunEvaluatorFailureFailsConcept(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "a", "b")}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{},
		Extractor: &stubExtractor{
			script: "a b",
			chunks: []concept.ScriptChunk{{Text: "a b", SourceBlockID: "block_000"}},
		},
		Fallback:  &stubFallback{},
		Evaluator: &stubEvaluator{err: errors.New("rubric service down")},
	})

	results := runner.Run(context.Background(),
		[]*concept.Concept{{TitleID: "c1", Status: concept.StatusPending}}, blocks, "")

	if results[0].Status != concept.StatusError {
		t.Fatalf("evaluator failure must fail the concept, got %q", results[0].Status)
	}
}

func TestRunRecommenderFailureIsNonFatal(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "a", "b")}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: &stubMatcher{},
		Extractor: &stubExtractor{
			script: "a b",
			chunks: []concept.ScriptChunk{{Text: "a b", SourceBlockID: "block_000"}},
		},
		Fallback:    &stubFallback{},
		Evaluator:   &stubEvaluator{},
		Recommender: &stubRecommender{err: errors.New("quota exceeded")},
	})

	results := runner.Run(context.Background(),
		[]*concept.Concept{{TitleID: "c1", Status: concept.StatusPending}}, blocks, "")

	if results[0].Status != concept.StatusSuccess {
		t.Fatalf("recommender failure must not fail the concept, got %q", results[0].Status)
	}
	if len(results[0].Recommendations) != 0 {
		t.Fatal("no recommendations expected after recommender failure")
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	blocks := []segment.Block{testBlock("block_000", "a", "b")}
	matcher := &stubMatcher{}
	runner := newTestRunner(t, RunnerConfig{
		Matcher: matcher,
		Extractor: &stubExtractor{
			script: "a b",
			chunks: []concept.ScriptChunk{{Text: "a b", SourceBlockID: "block_000"}},
		},
		Fallback:  &stubFallback{},
		Evaluator: &stubEvaluator{},
		Workers:   2,
	})

	concepts := make([]*concept.Concept, 8)
	for i := range concepts {
		concepts[i] = &concept.Concept{TitleID: fmt.Sprintf("c%d", i), Status: concept.StatusPending}
	}
	runner.Run(context.Background(), concepts, blocks, "")

	if max := matcher.maxSeen.Load(); max > 2 {
		t.Fatalf("worker bound exceeded: saw %d concurrent matchers", max)
	}
}

func TestValidateMatches(t *testing.T) {
	lookup := segment.Lookup([]segment.Block{testBlock("block_000", "the", "quick", "brown")})

	matches, duration := ValidateMatches(logging.NewNop(), []concept.MatchedBlock{
		{BlockID: "block_000", Preview: "the quick"},
		{BlockID: "block_000", Preview: "wrong preview"},
		{BlockID: "block_404", Preview: "the quick"},
	}, lookup)

	if len(matches) != 3 {
		t.Fatalf("all matches must be kept, got %d", len(matches))
	}
	if !matches[0].Validated || matches[1].Validated || matches[2].Validated {
		t.Fatalf("unexpected validation flags %+v", matches)
	}
	if duration != 2.5 {
		t.Fatalf("unexpected duration %v", duration)
	}
}
