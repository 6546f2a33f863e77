package service

import (
	"context"
	"fmt"
	"strings"

	"ohs-consultant/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const gigaChatTemperature = 0.3

type GigaChatProvider struct {
	client    *gigago.Client
	modelName string
	logger    *zap.Logger
}

func NewGigaChatProvider(cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatProvider, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(context.Background(), cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "GigaChat"
	}

	return &GigaChatProvider{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (p *GigaChatProvider) Name() string  { return "gigachat" }
func (p *GigaChatProvider) Model() string { return p.modelName }

// Complete maps system messages onto the model's system instruction; the
// rest of the dialog is sent as is.
func (p *GigaChatProvider) Complete(ctx context.Context, messages []ChatMessage, _ int) (*Completion, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.Temperature = gigaChatTemperature

	var system []string
	dialog := make([]gigago.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant":
			dialog = append(dialog, gigago.Message{Role: "assistant", Content: m.Content})
		default:
			dialog = append(dialog, gigago.Message{Role: gigago.RoleUser, Content: m.Content})
		}
	}
	if len(system) > 0 {
		model.SystemInstruction = strings.Join(system, "\n\n")
	}

	resp, err := model.Generate(ctx, dialog)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &Completion{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:   p.modelName,
	}, nil
}

func (p *GigaChatProvider) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
