package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ohs-consultant/pkg/config"
	"ohs-consultant/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported AI provider")
	ErrEmptyCompletion     = errors.New("AI provider returned no choices")
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Completion struct {
	Content    string
	Model      string
	TokensUsed int
}

// AIProvider is a chat completion backend. Implementations are safe for
// concurrent use.
type AIProvider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (*Completion, error)
	Close() error
}

// NewAIProvider builds the provider selected by AI_PROVIDER, instrumented
// with request metrics and the configured timeout.
func NewAIProvider(cfg *config.Config, logger *zap.Logger) (AIProvider, error) {
	var (
		provider AIProvider
		err      error
	)

	switch cfg.App.AIProvider {
	case "gigachat":
		provider, err = NewGigaChatProvider(&cfg.GigaChat, logger)
	case "openai":
		provider = NewOpenAIProvider(&cfg.OpenAI, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.App.AIProvider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("AI provider initialized",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()),
	)
	return Instrument(provider, cfg.App.AITimeout), nil
}

type instrumented struct {
	AIProvider
	timeout time.Duration
}

// Instrument bounds every call by timeout and records it in the AI metrics.
func Instrument(provider AIProvider, timeout time.Duration) AIProvider {
	return &instrumented{AIProvider: provider, timeout: timeout}
}

func (p *instrumented) Complete(ctx context.Context, messages []ChatMessage, maxTokens int) (*Completion, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := p.AIProvider.Complete(ctx, messages, maxTokens)
	metrics.AIRequestDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	metrics.AIRequests.WithLabelValues(p.Name(), metrics.Result(err == nil, "ok", "error")).Inc()

	return resp, err
}
