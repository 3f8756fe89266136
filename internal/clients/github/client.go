package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoGithubProfile is returned for unknown users and any non-OK upstream
// answer; callers surface it as a not-found condition.
var ErrNoGithubProfile = errors.New("no github profile found")

// ErrGithubUnavailable is returned when the upstream request itself fails.
var ErrGithubUnavailable = errors.New("github unavailable")

const (
	requestTimeout = 5 * time.Second
	reposPerPage   = 5
	userAgent      = "devlink"
)

// Repo is the slice of a GitHub repository the profile page shows.
type Repo struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
}

// Client fetches public repositories from the GitHub REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a GitHub client against the given API base URL
// (https://api.github.com in production, an httptest server in tests).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Repos returns the user's five earliest-created public repositories.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	u := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=created:asc",
		c.baseURL, url.PathEscape(username), reposPerPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGithubUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Any non-OK upstream answer reads as "no such profile".
	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoGithubProfile
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}

	return repos, nil
}
