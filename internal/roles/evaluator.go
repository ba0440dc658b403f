package roles

import (
	"context"
	"fmt"
	"log/slog"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
)

// ScriptEvaluator scores a finished script against a fixed rubric.
type ScriptEvaluator struct {
	client Completer
	logger *slog.Logger
}

func NewScriptEvaluator(client Completer, logger *slog.Logger) *ScriptEvaluator {
	return &ScriptEvaluator{client: client, logger: logging.NewComponentLogger(logger, RoleScriptEvaluator)}
}

// Evaluate returns a structured quality assessment of the script. The
// long-form summary gives the model context for judging relevance.
func (e *ScriptEvaluator) Evaluate(ctx context.Context, script, longFormSummary string) (*concept.Evaluation, error) {
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("evaluating script", slog.Int("script_chars", len(script)))

	userPrompt := fmt.Sprintf("Long-form summary:\n%s\n\nScript:\n%s", longFormSummary, script)
	content, err := e.client.CompleteJSON(ctx, evaluatorSystemPrompt, userPrompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleScriptEvaluator, "complete", "evaluation request failed", err)
	}

	var evaluation concept.Evaluation
	if err := llm.DecodeJSON(content, &evaluation); err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleScriptEvaluator, "decode", "unusable evaluation payload", err)
	}
	return &evaluation, nil
}
