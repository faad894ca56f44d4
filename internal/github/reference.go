package github

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kevinmichaelchen/repo-audit/internal/models"
)

// DefaultHost is the hosting domain accepted by ParseReference.
const DefaultHost = "github.com"

// ParseReference extracts owner and name from a repository URL such as
// https://github.com/owner/name. Anything after the second path segment,
// and any query or fragment, is ignored.
func ParseReference(raw, host string) (models.RepositoryReference, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return models.RepositoryReference{}, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if !strings.EqualFold(u.Hostname(), host) {
		return models.RepositoryReference{}, fmt.Errorf("%w: host %q is not %s", ErrInvalidReference, u.Hostname(), host)
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return models.RepositoryReference{}, fmt.Errorf("%w: expected /owner/name in %q", ErrInvalidReference, u.Path)
	}

	return models.RepositoryReference{Owner: parts[0], Name: parts[1]}, nil
}
