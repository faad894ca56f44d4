package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

const userAgent = "repo-audit"

// Client is a thin, unauthenticated wrapper around the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

// Repository is the subset of the repository record the audit needs.
type Repository struct {
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	OpenIssuesCount int     `json:"open_issues_count"`
	DefaultBranch   string  `json:"default_branch"`
	UpdatedAt       string  `json:"updated_at"`
}

// ContentEntry is one item of a directory listing.
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

func (c *Client) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	var repo Repository
	if err := c.getJSON(ctx, "repository", c.repoURL(owner, name, ""), &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// GetLanguages returns bytes of code per language.
func (c *Client) GetLanguages(ctx context.Context, owner, name string) (map[string]int, error) {
	languages := map[string]int{}
	if err := c.getJSON(ctx, "languages", c.repoURL(owner, name, "/languages"), &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// ListRootContents lists the top level of the default branch. The second
// return value is false when the endpoint answered with something other
// than a directory listing (a single file object, for instance).
func (c *Client) ListRootContents(ctx context.Context, owner, name string) ([]ContentEntry, bool, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "contents", c.repoURL(owner, name, "/contents"), &raw); err != nil {
		return nil, false, err
	}

	var entries []ContentEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, nil
	}
	return entries, true, nil
}

// FetchRaw downloads a file from its raw-content location.
func (c *Client) FetchRaw(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, "raw content", rawURL, "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// --- internal ---

func (c *Client) repoURL(owner, name, suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", c.baseURL, url.PathEscape(owner), url.PathEscape(name), suffix)
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	body, err := c.get(ctx, op, endpoint, "application/vnd.github+json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: parsing %s response: %v", ErrUnavailable, op, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s request: %v", ErrUnavailable, op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing %s request: %v", ErrUnavailable, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", ErrUnavailable, op, err)
	}
	return body, nil
}
