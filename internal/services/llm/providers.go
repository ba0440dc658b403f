package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// sendOnce issues a single provider request and extracts the completion text.
func (c *Client) sendOnce(ctx context.Context, systemPrompt, userPrompt, op string) (string, error) {
	var (
		endpoint string
		body     any
		header   http.Header = http.Header{}
	)

	switch c.cfg.Provider {
	case ProviderAzure:
		joined, err := url.JoinPath(c.cfg.Endpoint, "openai", "deployments", c.cfg.Model, "chat", "completions")
		if err != nil {
			return "", fmt.Errorf("llm request: build url: %w", err)
		}
		version := c.cfg.APIVersion
		if version == "" {
			version = "2024-06-01"
		}
		endpoint = joined + "?api-version=" + url.QueryEscape(version)
		header.Set("api-key", c.cfg.APIKey)
		body = azureChatRequest{
			Messages: []azureChatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
			Temperature:    0,
			ResponseFormat: map[string]string{"type": "json_object"},
		}
	case ProviderGoogle:
		joined, err := url.JoinPath(c.cfg.Endpoint, "v1beta", "models", c.cfg.Model+":generateContent")
		if err != nil {
			return "", fmt.Errorf("llm request: build url: %w", err)
		}
		endpoint = joined
		header.Set("x-goog-api-key", c.cfg.APIKey)
		body = googleGenerateRequest{
			SystemInstruction: &googleContent{Parts: []googlePart{{Text: systemPrompt}}},
			Contents:          []googleContent{{Role: "user", Parts: []googlePart{{Text: userPrompt}}}},
			GenerationConfig: googleGenerationConfig{
				Temperature:      0,
				ResponseMimeType: "application/json",
			},
		}
	default:
		return "", fmt.Errorf("llm request: unsupported provider %q", c.cfg.Provider)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("llm request: new request: %w", err)
	}
	req.Header = header
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: http error: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(payload)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	switch c.cfg.Provider {
	case ProviderAzure:
		return extractAzureContent(payload, op)
	default:
		return extractGoogleContent(payload, op)
	}
}

type azureChatRequest struct {
	Messages       []azureChatMessage `json:"messages"`
	Temperature    float64            `json:"temperature"`
	ResponseFormat map[string]string  `json:"response_format"`
}

type azureChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func extractAzureContent(payload []byte, op string) (string, error) {
	var completion azureChatResponse
	if err := json.Unmarshal(payload, &completion); err != nil {
		return "", fmt.Errorf("llm request: decode response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("llm request: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	var finishReason string
	for _, choice := range completion.Choices {
		if finishReason == "" {
			finishReason = strings.TrimSpace(choice.FinishReason)
		}
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", &emptyContentError{Op: op, FinishReason: finishReason, Snippet: summarizePayloadSnippet(string(payload))}
}

type googleGenerateRequest struct {
	SystemInstruction *googleContent         `json:"system_instruction,omitempty"`
	Contents          []googleContent        `json:"contents"`
	GenerationConfig  googleGenerationConfig `json:"generationConfig"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type googleGenerateResponse struct {
	Candidates []struct {
		Content      googleContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func extractGoogleContent(payload []byte, op string) (string, error) {
	var completion googleGenerateResponse
	if err := json.Unmarshal(payload, &completion); err != nil {
		return "", fmt.Errorf("llm request: decode response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("llm request: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	var finishReason string
	for _, candidate := range completion.Candidates {
		if finishReason == "" {
			finishReason = strings.TrimSpace(candidate.FinishReason)
		}
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", &emptyContentError{Op: op, FinishReason: finishReason, Snippet: summarizePayloadSnippet(string(payload))}
}
