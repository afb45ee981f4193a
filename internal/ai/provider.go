// Package ai exposes the model-invocation contract and its providers. The
// engine talks to a Provider; the Result envelope mirrors the wire contract
// of the invocation service: a status plus either a response or an error.
package ai

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ReiTony/petllm/internal/config"
	"github.com/ReiTony/petllm/pkg/ratelim"
)

// Provider generates one completion for a system+user prompt pair.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Result is the invocation envelope: status "success" with Data.Response,
// or status "error" with Error.Message.
type Result struct {
	Status string       `json:"status"`
	Data   *ResultData  `json:"data,omitempty"`
	Error  *ResultError `json:"error,omitempty"`
}

type ResultData struct {
	Response string `json:"response"`
}

type ResultError struct {
	Message string `json:"message"`
}

// OK reports whether the invocation succeeded with a non-empty response.
func (r *Result) OK() bool {
	return r != nil && r.Status == "success" && r.Data != nil && r.Data.Response != ""
}

// Invoke runs the provider and wraps the outcome into the Result envelope.
// Transport and API failures become an error-status result.
func Invoke(ctx context.Context, p Provider, systemPrompt, userPrompt string) *Result {
	out, err := p.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return &Result{Status: "error", Error: &ResultError{Message: err.Error()}}
	}
	return &Result{Status: "success", Data: &ResultData{Response: out}}
}

// NewProvider builds the configured provider, paced by an adaptive limiter.
func NewProvider(cfg *config.Config, logger *log.Logger) (Provider, error) {
	lim := ratelim.NewAdaptiveLimiter(2, 1, 10, 1, 0.5)

	switch cfg.AIProvider {
	case "openai", "":
		return NewPaced(NewOpenAIProvider(cfg, logger), lim), nil
	case "http":
		return NewPaced(NewHTTPProvider(cfg, logger), lim), nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", cfg.AIProvider)
	}
}

// Paced wraps a Provider with adaptive rate pacing. There is no retry here:
// a failed call surfaces to the caller, the limiter just slows the next one.
type Paced struct {
	inner Provider
	lim   *ratelim.AdaptiveLimiter
}

// NewPaced wraps p with lim.
func NewPaced(p Provider, lim *ratelim.AdaptiveLimiter) *Paced {
	return &Paced{inner: p, lim: lim}
}

func (p *Paced) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return "", err
	}
	out, err := p.inner.Generate(ctx, systemPrompt, userPrompt)
	p.lim.Observe(err)
	return out, err
}
