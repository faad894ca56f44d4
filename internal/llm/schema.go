package llm

import (
	"github.com/kevinmichaelchen/repo-audit/internal/models"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Schema is the output contract sent with every audit request. Strict mode
// requires every object to list all of its properties as required and to
// forbid additional ones.
func Schema() *jsonschema.Definition {
	dimension := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"name":     {Type: jsonschema.String},
			"score":    {Type: jsonschema.Integer, Description: "0 to 100."},
			"feedback": {Type: jsonschema.String},
		},
		Required:             []string{"name", "score", "feedback"},
		AdditionalProperties: false,
	}

	step := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title":       {Type: jsonschema.String},
			"description": {Type: jsonschema.String},
			"priority":    {Type: jsonschema.String, Enum: enumStrings(models.Priorities)},
		},
		Required:             []string{"title", "description", "priority"},
		AdditionalProperties: false,
	}

	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"overallScore": {
				Type:        jsonschema.Integer,
				Description: "A score from 0 to 100 representing the quality of the repository.",
			},
			"difficultyLevel": {
				Type: jsonschema.String,
				Enum: enumStrings(models.DifficultyLevels),
			},
			"summary": {
				Type:        jsonschema.String,
				Description: "A concise 2-3 sentence summary of the repository status.",
			},
			"strengths": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "List of 3-5 key strengths.",
			},
			"weaknesses": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "List of 3-5 key areas for improvement.",
			},
			"dimensions": {
				Type:        jsonschema.Array,
				Items:       &dimension,
				Description: "Detailed scores for dimensions: Code Quality, Documentation, Structure, Real-world Relevance.",
			},
			"roadmap": {
				Type:  jsonschema.Array,
				Items: &step,
			},
		},
		Required: []string{
			"overallScore", "difficultyLevel", "summary",
			"strengths", "weaknesses", "dimensions", "roadmap",
		},
		AdditionalProperties: false,
	}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
