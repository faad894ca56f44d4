package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kevinmichaelchen/repo-audit/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrMalformedOutput  = errors.New("malformed model output")
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.4

	schemaName = "repository_audit"
)

// ChatCompleter is the part of *openai.Client the requester uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds the process-wide completion client. Any
// OpenAI-compatible endpoint works, including Gemini's compatibility layer.
func NewOpenAIClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

// Requester turns a RepositorySummary into an AuditResult with one
// schema-constrained, non-streaming completion.
type Requester struct {
	client      ChatCompleter
	model       string
	temperature float32
	logger      *zap.Logger
}

type Option func(*Requester)

func WithModel(model string) Option {
	return func(r *Requester) {
		if model != "" {
			r.model = model
		}
	}
}

func WithTemperature(t float32) Option {
	return func(r *Requester) { r.temperature = t }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Requester) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRequester(client ChatCompleter, opts ...Option) *Requester {
	r := &Requester{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request builds the completion request for summary without sending it.
func (r *Requester) Request(summary models.RepositorySummary) openai.ChatCompletionRequest {
	// Temperature is omitempty on the wire; a literal zero would fall back
	// to the provider default.
	temperature := r.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}
	return openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(summary)},
		},
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: Schema(),
				Strict: true,
			},
		},
	}
}

func (r *Requester) Audit(ctx context.Context, summary models.RepositorySummary) (models.AuditResult, error) {
	req := r.Request(summary)
	log := r.logger.With(zap.String("repo", summary.FullName()), zap.String("model", r.model))
	log.Debug("requesting audit", zap.Int("prompt_chars", len(req.Messages[0].Content)))

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.AuditResult{}, fmt.Errorf("%w: completion for %s: %v", ErrModelUnavailable, summary.FullName(), err)
	}
	if len(resp.Choices) == 0 {
		return models.AuditResult{}, fmt.Errorf("%w: no choices returned for %s", ErrModelUnavailable, summary.FullName())
	}

	content := stripCodeFences(resp.Choices[0].Message.Content)
	if content == "" {
		return models.AuditResult{}, fmt.Errorf("%w: empty response for %s", ErrModelUnavailable, summary.FullName())
	}
	log.Debug("received audit", zap.Int("response_chars", len(content)))

	result, err := Decode([]byte(content))
	if err != nil {
		return models.AuditResult{}, fmt.Errorf("parsing audit for %s: %w", summary.FullName(), err)
	}
	return result, nil
}

// stripCodeFences removes markdown code fences that some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
