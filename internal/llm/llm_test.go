package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevinmichaelchen/repo-audit/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAuditJSON = `{
  "overallScore": 78,
  "difficultyLevel": "Intermediate",
  "summary": "A solid widget library. Documentation is decent.",
  "strengths": ["Clear layout", "Typed code", "Active"],
  "weaknesses": ["No tests", "No CI", "Sparse examples"],
  "dimensions": [
    {"name": "Code Quality", "score": 80, "feedback": "Readable."},
    {"name": "Documentation", "score": 70.0, "feedback": "README covers setup."}
  ],
  "roadmap": [
    {"title": "Add tests", "description": "Start with the core module.", "priority": "High"}
  ]
}`

type fakeCompleter struct {
	content string
	choices int
	err     error
	got     openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	resp := openai.ChatCompletionResponse{}
	for i := 0; i < f.choices; i++ {
		resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content},
		})
	}
	return resp, nil
}

func sampleSummary() models.RepositorySummary {
	desc := "Widgets for everyone"
	return models.RepositorySummary{
		Owner:         "acme",
		Name:          "widget",
		Description:   &desc,
		Stars:         42,
		Forks:         7,
		OpenIssues:    3,
		DefaultBranch: "main",
		UpdatedAt:     "2024-05-01T12:00:00Z",
		Languages:     map[string]int{"TypeScript": 1000, "CSS": 200},
		FileStructure: "/src (dir)\n/README.md (file)",
		ReadmeContent: "# Widget\nMakes widgets.",
	}
}

func TestAudit(t *testing.T) {
	fake := &fakeCompleter{content: validAuditJSON, choices: 1}
	r := NewRequester(fake, WithModel("test-model"), WithTemperature(0.2))

	result, err := r.Audit(context.Background(), sampleSummary())
	require.NoError(t, err)

	assert.Equal(t, 78, result.OverallScore)
	assert.Equal(t, models.DifficultyIntermediate, result.DifficultyLevel)
	require.Len(t, result.Dimensions, 2)
	assert.Equal(t, 70, result.Dimensions[1].Score)
	require.Len(t, result.Roadmap, 1)
	assert.Equal(t, models.PriorityHigh, result.Roadmap[0].Priority)
	assert.Len(t, result.Strengths, 3)

	assert.Equal(t, "test-model", fake.got.Model)
	assert.InDelta(t, 0.2, fake.got.Temperature, 1e-6)
	assert.False(t, fake.got.Stream)
	require.NotNil(t, fake.got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, fake.got.ResponseFormat.Type)
	require.NotNil(t, fake.got.ResponseFormat.JSONSchema)
	assert.True(t, fake.got.ResponseFormat.JSONSchema.Strict)
}

func TestAuditStripsCodeFences(t *testing.T) {
	fake := &fakeCompleter{content: "```json\n" + validAuditJSON + "\n```", choices: 1}

	result, err := NewRequester(fake).Audit(context.Background(), sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, 78, result.OverallScore)
}

func TestAuditModelUnavailable(t *testing.T) {
	cases := map[string]*fakeCompleter{
		"transport error": {err: errors.New("connection refused")},
		"no choices":      {choices: 0},
		"empty content":   {content: "   ", choices: 1},
	}
	for name, fake := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRequester(fake).Audit(context.Background(), sampleSummary())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrModelUnavailable)
			assert.NotErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestAuditMalformedOutput(t *testing.T) {
	fake := &fakeCompleter{content: `{"difficultyLevel": "Advanced"}`, choices: 1}

	result, err := NewRequester(fake).Audit(context.Background(), sampleSummary())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.Equal(t, models.AuditResult{}, result)
}

func TestAuditOverHTTP(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": validAuditJSON},
			}},
		})
	}))
	defer srv.Close()

	r := NewRequester(NewOpenAIClient(srv.URL+"/v1/", "test-key"))
	result, err := r.Audit(context.Background(), sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, 78, result.OverallScore)

	assert.Equal(t, DefaultModel, body["model"])
	assert.InDelta(t, DefaultTemperature, body["temperature"], 1e-6)
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok, "response_format should be sent")
	assert.Equal(t, "json_schema", format["type"])
	schema, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, schemaName, schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestAuditOverHTTPZeroTemperature(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-2",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": validAuditJSON},
			}},
		})
	}))
	defer srv.Close()

	r := NewRequester(NewOpenAIClient(srv.URL, "test-key"), WithTemperature(0))
	_, err := r.Audit(context.Background(), sampleSummary())
	require.NoError(t, err)

	temperature, ok := body["temperature"]
	require.True(t, ok, "a zero temperature must still be sent")
	assert.InDelta(t, 0, temperature, 1e-6)
}

func TestAuditOverHTTPServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	r := NewRequester(NewOpenAIClient(srv.URL, "test-key"))
	_, err := r.Audit(context.Background(), sampleSummary())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("  {\"a\":1}  "))
	assert.True(t, strings.HasPrefix(stripCodeFences("plain"), "plain"))
}
