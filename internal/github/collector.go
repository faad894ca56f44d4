package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kevinmichaelchen/repo-audit/internal/models"
	"go.uber.org/zap"
)

const (
	// MaxReadmeChars bounds the README text forwarded to the model.
	MaxReadmeChars = 8000

	NoFileStructure = "Unable to fetch file structure."
	NoReadme        = "No README found or could not be fetched."
)

// Collector assembles a RepositorySummary from four sequential reads:
// repository record, languages, root listing, README.
type Collector struct {
	client *Client
	logger *zap.Logger
}

func NewCollector(client *Client, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{client: client, logger: logger}
}

func (c *Collector) Collect(ctx context.Context, ref models.RepositoryReference) (models.RepositorySummary, error) {
	log := c.logger.With(zap.String("repo", ref.FullName()))

	log.Debug("fetching repository record")
	repo, err := c.client.GetRepository(ctx, ref.Owner, ref.Name)
	if err != nil {
		return models.RepositorySummary{}, fmt.Errorf("collecting %s: %w", ref.FullName(), err)
	}

	log.Debug("fetching languages")
	languages, err := c.client.GetLanguages(ctx, ref.Owner, ref.Name)
	if err != nil {
		return models.RepositorySummary{}, fmt.Errorf("collecting %s: %w", ref.FullName(), err)
	}

	log.Debug("listing root contents")
	entries, listed, err := c.client.ListRootContents(ctx, ref.Owner, ref.Name)
	if err != nil {
		// An empty repository has no root to list and the endpoint answers 404
		// even though the record itself was found a moment ago.
		if !errors.Is(err, ErrNotFound) {
			return models.RepositorySummary{}, fmt.Errorf("collecting %s: %w", ref.FullName(), err)
		}
		log.Warn("repository root is not listable", zap.Error(err))
		entries, listed = nil, false
	}

	summary := models.RepositorySummary{
		Owner:         repo.Owner.Login,
		Name:          repo.Name,
		Description:   repo.Description,
		Stars:         repo.StargazersCount,
		Forks:         repo.ForksCount,
		OpenIssues:    repo.OpenIssuesCount,
		DefaultBranch: repo.DefaultBranch,
		UpdatedAt:     repo.UpdatedAt,
		Languages:     languages,
		FileStructure: NoFileStructure,
		ReadmeContent: NoReadme,
	}
	if summary.Owner == "" {
		summary.Owner = ref.Owner
	}
	if summary.Name == "" {
		summary.Name = ref.Name
	}

	if listed && len(entries) > 0 {
		summary.FileStructure = FileStructure(entries)
	}
	summary.ReadmeContent = c.readme(ctx, log, entries)

	return summary, nil
}

// FileStructure renders one "/{name} ({type})" line per entry, in listing order.
func FileStructure(entries []ContentEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("/%s (%s)", e.Name, e.Type))
	}
	return strings.Join(lines, "\n")
}

// FindReadme returns the first entry whose name starts with "readme", ignoring case.
func FindReadme(entries []ContentEntry) (ContentEntry, bool) {
	for _, e := range entries {
		if strings.HasPrefix(strings.ToLower(e.Name), "readme") {
			return e, true
		}
	}
	return ContentEntry{}, false
}

// readme never fails: every problem degrades to the NoReadme placeholder.
func (c *Collector) readme(ctx context.Context, log *zap.Logger, entries []ContentEntry) string {
	entry, ok := FindReadme(entries)
	if !ok || entry.DownloadURL == "" {
		log.Warn("no README entry in root listing")
		return NoReadme
	}

	log.Debug("fetching README", zap.String("path", entry.Path))
	text, err := c.client.FetchRaw(ctx, entry.DownloadURL)
	if err != nil {
		log.Warn("failed to fetch README", zap.Error(err))
		return NoReadme
	}
	return Truncate(text, MaxReadmeChars)
}

// Truncate keeps the first limit characters (runes) of s.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
