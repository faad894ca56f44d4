package models

import (
	"fmt"
	"slices"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "Beginner"
	DifficultyIntermediate DifficultyLevel = "Intermediate"
	DifficultyAdvanced     DifficultyLevel = "Advanced"
)

// DifficultyLevels lists the values the model is allowed to return, in schema order.
var DifficultyLevels = []DifficultyLevel{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Dimension is one named sub-score of an audit.
type Dimension struct {
	Name     string `json:"name" yaml:"name"`
	Score    int    `json:"score" yaml:"score"`
	Feedback string `json:"feedback" yaml:"feedback"`
}

// RoadmapStep is one prioritized improvement suggestion.
type RoadmapStep struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority"`
}

// AuditResult is the structured evaluation produced by the model.
type AuditResult struct {
	OverallScore    int             `json:"overallScore" yaml:"overallScore"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel" yaml:"difficultyLevel"`
	Summary         string          `json:"summary" yaml:"summary"`
	Dimensions      []Dimension     `json:"dimensions" yaml:"dimensions"`
	Roadmap         []RoadmapStep   `json:"roadmap" yaml:"roadmap"`
	Strengths       []string        `json:"strengths" yaml:"strengths"`
	Weaknesses      []string        `json:"weaknesses" yaml:"weaknesses"`
}

// Validate reports values outside the ranges and enums the prompt asks for.
// The result is informational: a parsed audit is accepted even when issues exist.
func (a AuditResult) Validate() []string {
	var issues []string
	if !scoreInRange(a.OverallScore) {
		issues = append(issues, fmt.Sprintf("overallScore %d outside 0-100", a.OverallScore))
	}
	if !slices.Contains(DifficultyLevels, a.DifficultyLevel) {
		issues = append(issues, fmt.Sprintf("unknown difficultyLevel %q", a.DifficultyLevel))
	}
	for _, d := range a.Dimensions {
		if !scoreInRange(d.Score) {
			issues = append(issues, fmt.Sprintf("dimension %q score %d outside 0-100", d.Name, d.Score))
		}
	}
	for _, step := range a.Roadmap {
		if !slices.Contains(Priorities, step.Priority) {
			issues = append(issues, fmt.Sprintf("roadmap step %q has unknown priority %q", step.Title, step.Priority))
		}
	}
	if n := len(a.Strengths); n < 3 || n > 5 {
		issues = append(issues, fmt.Sprintf("expected 3-5 strengths, got %d", n))
	}
	if n := len(a.Weaknesses); n < 3 || n > 5 {
		issues = append(issues, fmt.Sprintf("expected 3-5 weaknesses, got %d", n))
	}
	return issues
}

func scoreInRange(score int) bool {
	return score >= 0 && score <= 100
}
