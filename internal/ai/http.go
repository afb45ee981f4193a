package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ReiTony/petllm/internal/config"
)

// HTTPProvider is a thin client for OpenAI-compatible chat endpoints that
// avoids the SDK. Useful for self-hosted or keyless gateways.
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *log.Logger
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider builds a provider from config.
func NewHTTPProvider(cfg *config.Config, logger *log.Logger) *HTTPProvider {
	return &HTTPProvider{
		client:  &http.Client{Timeout: 25 * time.Second},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
	}
}

// statusError carries the HTTP status so the limiter can classify overload.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string   { return fmt.Sprintf("model http %d: %s", e.code, e.body) }
func (e *statusError) StatusCode() int { return e.code }

func (p *HTTPProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []map[string]string{}
	if systemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": userPrompt})

	payload := map[string]any{
		"model":       p.model,
		"messages":    messages,
		"temperature": openAITemperature,
		"top_p":       openAITopP,
		"max_tokens":  openAIMaxTokens,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &statusError{code: resp.StatusCode, body: truncate(body)}
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return "", fmt.Errorf("model endpoint returned html")
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("model returned empty choices")
	}

	reply := cleanReply(parsed.Choices[0].Message.Content)
	if isGarbageResponse(reply) {
		return "", ErrGarbage
	}

	p.logger.Debug("completion", "model", p.model, "len", len(reply))
	return reply, nil
}
