package roles

import (
	"context"
	"log/slog"
	"strings"

	"reelsmith/internal/logging"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
)

// Summarizer condenses the full transcript into a short summary used as
// context by the evaluator and recommender.
type Summarizer struct {
	client Completer
	logger *slog.Logger
}

func NewSummarizer(client Completer, logger *slog.Logger) *Summarizer {
	return &Summarizer{client: client, logger: logging.NewComponentLogger(logger, RoleSummarizer)}
}

type summaryPayload struct {
	Summary string `json:"summary"`
}

// Summarize returns a summary of the transcript text.
func (s *Summarizer) Summarize(ctx context.Context, transcriptText string) (string, error) {
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("generating transcript summary", slog.Int("transcript_chars", len(transcriptText)))

	content, err := s.client.CompleteJSON(ctx, summarizerSystemPrompt, transcriptText)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, RoleSummarizer, "complete", "summary request failed", err)
	}

	var payload summaryPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return "", services.Wrap(services.ErrExternalService, RoleSummarizer, "decode", "unusable summary payload", err)
	}
	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		return "", services.Wrap(services.ErrExternalService, RoleSummarizer, "decode", "empty summary", nil)
	}
	return summary, nil
}
