// Package github is a thin wrapper over the GitHub REST API used by the
// project-status panel. It is glue, not core: failures are logged and
// surfaced as empty results.
package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	owner      string
	repo       string
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(owner, repo, token string) *Client {
	return &Client{
		owner:      owner,
		repo:       repo,
		baseURL:    "https://api.github.com",
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RepoInfo holds basic repository metadata.
type RepoInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	OpenIssues  int    `json:"open_issues"`
	Language    string `json:"language"`
	URL         string `json:"url"`
}

// Commit is a trimmed view of a repository commit.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// Issue is a trimmed view of a repository issue.
type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	State  string   `json:"state"`
	Author string   `json:"author"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

// GetRepoInfo returns basic repository information.
func (c *Client) GetRepoInfo() (*RepoInfo, error) {
	var raw struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Stars       int    `json:"stargazers_count"`
		Forks       int    `json:"forks_count"`
		OpenIssues  int    `json:"open_issues_count"`
		Language    string `json:"language"`
		URL         string `json:"html_url"`
	}
	if err := c.get("", &raw); err != nil {
		return nil, fmt.Errorf("get repo info: %w", err)
	}
	return &RepoInfo{
		Name:        raw.Name,
		Description: raw.Description,
		Stars:       raw.Stars,
		Forks:       raw.Forks,
		OpenIssues:  raw.OpenIssues,
		Language:    raw.Language,
		URL:         raw.URL,
	}, nil
}

// GetCommits returns the most recent commits.
func (c *Client) GetCommits(limit int) ([]Commit, error) {
	var raw []struct {
		SHA    string `json:"sha"`
		URL    string `json:"html_url"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string `json:"name"`
				Date string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := c.get(fmt.Sprintf("/commits?per_page=%d", limit), &raw); err != nil {
		return nil, fmt.Errorf("get commits: %w", err)
	}

	commits := make([]Commit, 0, len(raw))
	for _, r := range raw {
		sha := r.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		commits = append(commits, Commit{
			SHA:     sha,
			Message: r.Commit.Message,
			Author:  r.Commit.Author.Name,
			Date:    r.Commit.Author.Date,
			URL:     r.URL,
		})
	}
	return commits, nil
}

// GetIssues returns repository issues in the given state. Pull requests
// share the issues endpoint and are skipped.
func (c *Client) GetIssues(state string, limit int) ([]Issue, error) {
	var raw []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		State       string `json:"state"`
		URL         string `json:"html_url"`
		PullRequest *struct{} `json:"pull_request"`
		User        struct {
			Login string `json:"login"`
		} `json:"user"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
	}
	if err := c.get(fmt.Sprintf("/issues?state=%s&per_page=%d", state, limit), &raw); err != nil {
		return nil, fmt.Errorf("get issues: %w", err)
	}

	var issues []Issue
	for _, r := range raw {
		if r.PullRequest != nil {
			continue
		}
		labels := make([]string, 0, len(r.Labels))
		for _, l := range r.Labels {
			labels = append(labels, l.Name)
		}
		issues = append(issues, Issue{
			Number: r.Number,
			Title:  r.Title,
			State:  r.State,
			Author: r.User.Login,
			URL:    r.URL,
			Labels: labels,
		})
	}
	return issues, nil
}

func (c *Client) get(path string, result any) error {
	url := fmt.Sprintf("%s/repos/%s/%s%s", c.baseURL, c.owner, c.repo, path)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
