package pipeline

import (
	"context"
	"fmt"

	"github.com/kevinmichaelchen/repo-audit/internal/github"
	"github.com/kevinmichaelchen/repo-audit/internal/models"
	"go.uber.org/zap"
)

// Collector gathers the bounded repository summary.
type Collector interface {
	Collect(ctx context.Context, ref models.RepositoryReference) (models.RepositorySummary, error)
}

// Requester produces the audit for a summary.
type Requester interface {
	Audit(ctx context.Context, summary models.RepositorySummary) (models.AuditResult, error)
}

// Outcome is what a successful run hands to the presentation layer.
type Outcome struct {
	Summary models.RepositorySummary `json:"summary" yaml:"summary"`
	Result  models.AuditResult       `json:"audit" yaml:"audit"`
}

// Pipeline runs parse, collect and audit in sequence. Any failure stops the
// run; nothing is retried.
type Pipeline struct {
	Host      string
	Collector Collector
	Requester Requester
	Logger    *zap.Logger
}

func New(host string, collector Collector, requester Requester, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{Host: host, Collector: collector, Requester: requester, Logger: logger}
}

// Run audits the repository at rawURL. progress, when non-nil, receives a
// short description of each stage as it starts.
func (p *Pipeline) Run(ctx context.Context, rawURL string, progress func(step string)) (Outcome, error) {
	if progress == nil {
		progress = func(string) {}
	}

	ref, err := github.ParseReference(rawURL, p.Host)
	if err != nil {
		return Outcome{}, err
	}

	// Step 1: gather repository metadata
	progress(fmt.Sprintf("Fetching data for %s...", ref.FullName()))
	summary, err := p.Collector.Collect(ctx, ref)
	if err != nil {
		return Outcome{}, err
	}
	p.Logger.Info("collected repository summary",
		zap.String("repo", summary.FullName()),
		zap.Int("languages", len(summary.Languages)),
		zap.Int("readme_bytes", len(summary.ReadmeContent)),
	)

	// Step 2: ask the model for the audit
	progress("AI Agent analyzing code quality and structure...")
	result, err := p.Requester.Audit(ctx, summary)
	if err != nil {
		return Outcome{}, err
	}

	if issues := result.Validate(); len(issues) > 0 {
		p.Logger.Warn("audit outside expected ranges", zap.String("repo", summary.FullName()), zap.Strings("issues", issues))
	}
	p.Logger.Info("audit complete", zap.String("repo", summary.FullName()), zap.Int("score", result.OverallScore))

	return Outcome{Summary: summary, Result: result}, nil
}
