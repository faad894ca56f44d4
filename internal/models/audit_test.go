package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validAudit() AuditResult {
	return AuditResult{
		OverallScore:    78,
		DifficultyLevel: DifficultyIntermediate,
		Summary:         "A tidy widget library.",
		Dimensions: []Dimension{
			{Name: "Code Quality", Score: 80, Feedback: "Readable."},
			{Name: "Documentation", Score: 70, Feedback: "Decent README."},
		},
		Roadmap: []RoadmapStep{
			{Title: "Add tests", Description: "Cover the core.", Priority: PriorityHigh},
		},
		Strengths:  []string{"a", "b", "c"},
		Weaknesses: []string{"x", "y", "z"},
	}
}

func TestAuditResultValidate(t *testing.T) {
	t.Run("clean audit has no issues", func(t *testing.T) {
		assert.Empty(t, validAudit().Validate())
	})

	t.Run("out of range and unknown enums are reported", func(t *testing.T) {
		a := validAudit()
		a.OverallScore = 140
		a.DifficultyLevel = "Expert"
		a.Dimensions[0].Score = -5
		a.Roadmap[0].Priority = "Urgent"
		a.Strengths = []string{"only one"}

		issues := a.Validate()
		assert.Len(t, issues, 5)
		assert.Contains(t, issues, "overallScore 140 outside 0-100")
		assert.Contains(t, issues, `unknown difficultyLevel "Expert"`)
		assert.Contains(t, issues, "expected 3-5 strengths, got 1")
	})
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "acme/widget", RepositoryReference{Owner: "acme", Name: "widget"}.FullName())
	assert.Equal(t, "acme/widget", RepositorySummary{Owner: "acme", Name: "widget"}.FullName())
}
