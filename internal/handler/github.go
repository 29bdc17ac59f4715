package handler

import (
	"log"
	"net/http"
	"strconv"

	"hrbot/internal/github"
)

// GitHubHandler serves project-status data for the chat frontend's
// repository panel.
type GitHubHandler struct {
	gh *github.Client
}

func NewGitHubHandler(gh *github.Client) *GitHubHandler {
	return &GitHubHandler{gh: gh}
}

func (h *GitHubHandler) HandleRepoInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.gh.GetRepoInfo()
	if err != nil {
		log.Printf("ERROR github repo info: %v", err)
		writeJSON(w, map[string]string{"error": "GitHub data unavailable"})
		return
	}
	writeJSON(w, info)
}

func (h *GitHubHandler) HandleCommits(w http.ResponseWriter, r *http.Request) {
	commits, err := h.gh.GetCommits(limitParam(r, 5))
	if err != nil {
		log.Printf("ERROR github commits: %v", err)
		writeJSON(w, []github.Commit{})
		return
	}
	writeJSON(w, commits)
}

func (h *GitHubHandler) HandleIssues(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "open"
	}
	issues, err := h.gh.GetIssues(state, limitParam(r, 5))
	if err != nil {
		log.Printf("ERROR github issues: %v", err)
		writeJSON(w, []github.Issue{})
		return
	}
	writeJSON(w, issues)
}

// RegisterRoutes registers the project-status routes on the given mux.
func (h *GitHubHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/github/repo", h.HandleRepoInfo)
	mux.HandleFunc("GET /api/github/commits", h.HandleCommits)
	mux.HandleFunc("GET /api/github/issues", h.HandleIssues)
}

func limitParam(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
