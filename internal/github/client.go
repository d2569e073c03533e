// Package github fetches repository metadata and README content from the
// GitHub REST API. It is a thin collaborator of the insight engine: the
// engine only sees the resulting RepoMetadata and README text. Pagination
// and rate-limit handling are intentionally absent; a single metadata call
// and a single README call cover the analysis flow.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/normanking/docsight/internal/insight"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client. The token is optional; without it, requests
// run against the anonymous rate limit.
func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL supports GitHub Enterprise hosts and test servers.
// An empty baseURL selects the public API.
func NewClientWithBaseURL(baseURL, token string) *Client {
	c := NewClient(token)
	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
	return c
}

// Repository is the subset of the repository envelope the engine uses.
type Repository struct {
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	Size            int    `json:"size"`
}

type readmeEnvelope struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Fetch retrieves metadata and README text for "owner/repo".
func (c *Client) Fetch(ctx context.Context, fullName string) (*insight.RepoMetadata, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return nil, "", fmt.Errorf("invalid repository reference %q (want owner/repo)", fullName)
	}

	var repo Repository
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name), &repo); err != nil {
		return nil, "", fmt.Errorf("fetch repository: %w", err)
	}

	readme, err := c.fetchReadme(ctx, owner, name)
	if err != nil {
		// A repository without a README is still analyzable from metadata.
		readme = ""
	}

	meta := &insight.RepoMetadata{
		Name:        repo.FullName,
		Language:    repo.Language,
		Stars:       repo.StargazersCount,
		Description: repo.Description,
		Size:        repo.Size,
	}
	return meta, readme, nil
}

func (c *Client) fetchReadme(ctx context.Context, owner, name string) (string, error) {
	var env readmeEnvelope
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/readme", owner, name), &env); err != nil {
		return "", err
	}
	if env.Encoding != "base64" {
		return env.Content, nil
	}
	// GitHub wraps base64 payloads with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(env.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return string(decoded), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
