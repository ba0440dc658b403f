package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"reelsmith/internal/format"
	"reelsmith/internal/indexer"
	"reelsmith/internal/logging"
	"reelsmith/internal/pipeline"
	"reelsmith/internal/roles"
	"reelsmith/internal/segment"
	"reelsmith/internal/services"
	"reelsmith/internal/services/llm"
	"reelsmith/internal/transcript"
)

type generateRequest struct {
	ElementsData          *transcript.RawTranscript `json:"elementsData"`
	ServiceConfigurations map[string]serviceConfig  `json:"service_configurations"`
	RequestContext        requestContext            `json:"request_context"`
}

// serviceConfig is the per-role model selection sent by the client. Fields
// left empty fall back to the process-level provider defaults.
type serviceConfig struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key"`
	Endpoint   string `json:"endpoint"`
	APIVersion string `json:"api_version"`
}

type requestContext struct {
	NumConceptsRequested int `json:"num_concepts_requested"`
}

type generateResponse struct {
	Status  string          `json:"status"`
	Results []format.Result `json:"results"`
}

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

const genericServerError = "An unexpected server error occurred."

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.NewString()
	ctx := services.WithRequestID(r.Context(), requestID)
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("received generation request")

	var req generateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		logger.Warn("rejecting malformed request body", slog.String("error", err.Error()))
		s.writeError(w, http.StatusBadRequest, "Request must be JSON.")
		return
	}
	if req.ElementsData == nil || len(req.ElementsData.Words) == 0 {
		s.writeError(w, http.StatusBadRequest, "Missing 'elementsData' in request.")
		return
	}

	resp, err := s.generate(ctx, logger, &req)
	if err != nil {
		status := services.HTTPStatus(err)
		message := genericServerError
		if status < http.StatusInternalServerError {
			message = err.Error()
		}
		logger.Error("generation request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		s.writeError(w, status, message)
		return
	}

	logger.Info("generation request complete", slog.Int("results", len(resp.Results)))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) generate(ctx context.Context, logger *slog.Logger, req *generateRequest) (*generateResponse, error) {
	textual, full, idMap := transcript.Dehydrate(*req.ElementsData)

	segmenter, err := segment.NewSegmenter(s.cfg.Pipeline.BlockMaxWords, s.cfg.Pipeline.SoftLimitRatio)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "server", "generate", "building segmenter", err)
	}
	blocks := segmenter.Segment(textual)
	logger.Info("transcript segmented",
		slog.Int("tokens", len(full.Words)),
		slog.Int("blocks", len(blocks)))

	roleSet, err := s.buildRoleSet(req.ServiceConfigurations)
	if err != nil {
		return nil, err
	}

	summary, err := roleSet.Summarizer.Summarize(ctx, textual.Text())
	if err != nil {
		return nil, err
	}

	numConcepts := req.RequestContext.NumConceptsRequested
	if numConcepts <= 0 {
		numConcepts = s.cfg.Pipeline.DefaultNumConcepts
	}
	concepts, err := roleSet.Generator.Generate(ctx, blocks, numConcepts)
	if err != nil {
		return nil, err
	}
	if len(concepts) == 0 {
		return &generateResponse{Status: "success", Results: []format.Result{}}, nil
	}

	runner, err := pipeline.NewRunner(pipeline.RunnerConfig{
		Matcher:     roleSet.Matcher,
		Extractor:   roleSet.Extractor,
		Indexer:     indexer.New(s.logger),
		Fallback:    roleSet.FallbackIndexer,
		Evaluator:   roleSet.Evaluator,
		Recommender: recommenderOrNil(roleSet, s.cfg.Pipeline.RecommendationsEnabled),
		Workers:     s.cfg.Pipeline.MaxWorkers,
		Logger:      s.logger,
	})
	if err != nil {
		return nil, err
	}
	processed := runner.Run(ctx, concepts, blocks, summary)

	results := format.New(s.logger).Format(processed, full, idMap)
	return &generateResponse{Status: "success", Results: results}, nil
}

// requiredRoles are the collaborators every generation request must
// configure. The recommender stays optional.
var requiredRoles = []string{
	roles.RoleSummarizer,
	roles.RoleConceptGenerator,
	roles.RoleBlockMatcher,
	roles.RoleScriptExtractor,
	roles.RoleFallbackIndexer,
	roles.RoleScriptEvaluator,
}

func (s *Server) buildRoleSet(serviceConfigs map[string]serviceConfig) (*roles.Set, error) {
	configs := make(map[string]llm.Config, len(serviceConfigs))
	for name, sc := range serviceConfigs {
		cfg, err := s.mergeLLMConfig(name, sc)
		if err != nil {
			return nil, err
		}
		configs[name] = cfg
	}
	return roles.NewSet(configs, requiredRoles, s.logger)
}

// mergeLLMConfig layers a request's role configuration over the process-level
// defaults for its provider.
func (s *Server) mergeLLMConfig(role string, sc serviceConfig) (llm.Config, error) {
	provider := strings.TrimSpace(sc.Provider)
	defaults, ok := s.cfg.Provider(provider)
	if !ok {
		return llm.Config{}, services.Wrap(services.ErrValidation, "server", "merge_llm_config",
			fmt.Sprintf("unknown provider %q for role %q", sc.Provider, role), nil)
	}

	merged := llm.Config{
		Provider:       provider,
		Model:          strings.TrimSpace(sc.Model),
		APIKey:         defaults.APIKey,
		Endpoint:       defaults.Endpoint,
		APIVersion:     defaults.APIVersion,
		TimeoutSeconds: s.cfg.LLM.TimeoutSeconds,
	}
	if v := strings.TrimSpace(sc.APIKey); v != "" {
		merged.APIKey = v
	}
	if v := strings.TrimSpace(sc.Endpoint); v != "" {
		merged.Endpoint = v
	}
	if v := strings.TrimSpace(sc.APIVersion); v != "" {
		merged.APIVersion = v
	}
	return merged, nil
}

func recommenderOrNil(set *roles.Set, enabled bool) pipeline.ScriptRecommender {
	if !enabled || set.Recommender == nil {
		return nil
	}
	return set.Recommender
}
