package session

import (
	"errors"

	"github.com/kevinmichaelchen/repo-audit/internal/github"
	"github.com/kevinmichaelchen/repo-audit/internal/llm"
)

const (
	MsgInvalidReference = "Invalid GitHub URL. Please use format: https://github.com/owner/repo"
	MsgNotFound         = "Repository not found. Please check the URL."
	MsgRateLimited      = "GitHub API rate limit exceeded. Please try again later or use a different IP."
	MsgAuditFailed      = "Failed to analyze repository with AI."
	MsgUnexpected       = "An unexpected error occurred."
)

// Message maps a pipeline error to the single line shown to the user.
// Model failures collapse into one message regardless of cause.
func Message(err error) string {
	var statusErr *github.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput), errors.Is(err, github.ErrInvalidReference):
		return MsgInvalidReference
	case errors.Is(err, github.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, github.ErrRateLimited):
		return MsgRateLimited
	case errors.As(err, &statusErr):
		return "GitHub API error: " + statusErr.StatusText()
	case errors.Is(err, github.ErrUnavailable):
		return "GitHub API error: service unavailable"
	case errors.Is(err, llm.ErrModelUnavailable), errors.Is(err, llm.ErrMalformedOutput):
		return MsgAuditFailed
	default:
		return MsgUnexpected
	}
}
