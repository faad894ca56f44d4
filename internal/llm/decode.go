package llm

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/kevinmichaelchen/repo-audit/internal/models"
)

// Wire types use pointers so a missing or null field can be told apart from
// a zero value. Scores arrive as JSON numbers and may carry a fractional part.
type wireAudit struct {
	OverallScore    *float64         `json:"overallScore"`
	DifficultyLevel *string          `json:"difficultyLevel"`
	Summary         *string          `json:"summary"`
	Dimensions      *[]wireDimension `json:"dimensions"`
	Roadmap         *[]wireStep      `json:"roadmap"`
	Strengths       *[]*string       `json:"strengths"`
	Weaknesses      *[]*string       `json:"weaknesses"`
}

type wireDimension struct {
	Name     *string  `json:"name"`
	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback"`
}

type wireStep struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

// Decode parses model output into an AuditResult. Every field of the schema
// must be present with the right JSON type; values are not range-checked.
func Decode(data []byte) (models.AuditResult, error) {
	var w wireAudit
	if err := json.Unmarshal(data, &w); err != nil {
		return models.AuditResult{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	switch {
	case w.OverallScore == nil:
		return missing("overallScore")
	case w.DifficultyLevel == nil:
		return missing("difficultyLevel")
	case w.Summary == nil:
		return missing("summary")
	case w.Dimensions == nil:
		return missing("dimensions")
	case w.Roadmap == nil:
		return missing("roadmap")
	case w.Strengths == nil:
		return missing("strengths")
	case w.Weaknesses == nil:
		return missing("weaknesses")
	}

	strengths, err := stringList("strengths", *w.Strengths)
	if err != nil {
		return models.AuditResult{}, err
	}
	weaknesses, err := stringList("weaknesses", *w.Weaknesses)
	if err != nil {
		return models.AuditResult{}, err
	}

	result := models.AuditResult{
		OverallScore:    toInt(*w.OverallScore),
		DifficultyLevel: models.DifficultyLevel(*w.DifficultyLevel),
		Summary:         *w.Summary,
		Dimensions:      make([]models.Dimension, 0, len(*w.Dimensions)),
		Roadmap:         make([]models.RoadmapStep, 0, len(*w.Roadmap)),
		Strengths:       strengths,
		Weaknesses:      weaknesses,
	}

	for i, d := range *w.Dimensions {
		if d.Name == nil || d.Score == nil || d.Feedback == nil {
			return missing(fmt.Sprintf("dimensions[%d] name/score/feedback", i))
		}
		result.Dimensions = append(result.Dimensions, models.Dimension{
			Name:     *d.Name,
			Score:    toInt(*d.Score),
			Feedback: *d.Feedback,
		})
	}

	for i, s := range *w.Roadmap {
		if s.Title == nil || s.Description == nil || s.Priority == nil {
			return missing(fmt.Sprintf("roadmap[%d] title/description/priority", i))
		}
		result.Roadmap = append(result.Roadmap, models.RoadmapStep{
			Title:       *s.Title,
			Description: *s.Description,
			Priority:    models.Priority(*s.Priority),
		})
	}

	return result, nil
}

func missing(field string) (models.AuditResult, error) {
	return models.AuditResult{}, fmt.Errorf("%w: missing required field %s", ErrMalformedOutput, field)
}

func stringList(field string, items []*string) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item == nil {
			_, err := missing(fmt.Sprintf("%s[%d]", field, i))
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

func toInt(f float64) int {
	return int(math.Round(f))
}
