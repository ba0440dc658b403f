package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
)

// ScriptRecommender turns an evaluation report into actionable script
// improvement suggestions.
type ScriptRecommender struct {
	client Completer
	logger *slog.Logger
}

func NewScriptRecommender(client Completer, logger *slog.Logger) *ScriptRecommender {
	return &ScriptRecommender{client: client, logger: logging.NewComponentLogger(logger, RoleScriptRecommender)}
}

type recommenderPayload struct {
	Recommendations []concept.Recommendation `json:"recommendations"`
}

// Recommend generates improvement suggestions grounded in the evaluation.
func (r *ScriptRecommender) Recommend(ctx context.Context, item *concept.Concept, script, longFormSummary string, evaluation *concept.Evaluation) ([]concept.Recommendation, error) {
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("generating script recommendations", slog.String(logging.FieldConcept, item.TitleID))

	evalJSON, err := json.MarshalIndent(evaluation, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleScriptRecommender, "encode", "marshaling evaluation", err)
	}

	userPrompt := fmt.Sprintf("Concept:\ntitle: %s\nlogline: %s\n\nLong-form summary:\n%s\n\nEvaluation report:\n%s\n\nScript:\n%s",
		item.Title, item.Logline, longFormSummary, evalJSON, script)
	content, err := r.client.CompleteJSON(ctx, recommenderSystemPrompt, userPrompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleScriptRecommender, "complete", "recommendation request failed", err)
	}

	var payload recommenderPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrExternalService, RoleScriptRecommender, "decode", "unusable recommendation payload", err)
	}
	return payload.Recommendations, nil
}
