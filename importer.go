package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Importer validates or forks a GitHub repository for import. Stateless:
// the caller supplies its own GitHub token on every request.
type Importer struct {
	APIEndpoint string // overridable for tests

	http *http.Client
}

func NewImporter() *Importer {
	return &Importer{
		APIEndpoint: "https://api.github.com",
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

type ImportRequest struct {
	URL         string `json:"url"`
	Fork        bool   `json:"fork"`
	GitHubToken string `json:"github_token"`
}

type ImportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	RepoURL string `json:"repo_url,omitempty"`
}

// parseRepoURL extracts owner and repository name from a github.com URL.
func parseRepoURL(rawURL string) (owner, repo string, err error) {
	parts := strings.Split(strings.Trim(rawURL, "/"), "/")
	for i, p := range parts {
		if p == "github.com" {
			if i+2 >= len(parts) {
				return "", "", errors.New("not a valid GitHub repository URL")
			}
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", errors.New("not a valid GitHub URL")
}

func (im *Importer) do(ctx context.Context, method, url, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := im.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("github api error: status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *App) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.GitHubToken == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "GitHub token not configured. Please add your GitHub token in settings.")
		return
	}

	owner, repo, err := parseRepoURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	repoURL := a.Importer.APIEndpoint + "/repos/" + owner + "/" + repo
	if err := a.Importer.do(r.Context(), http.MethodGet, repoURL, req.GitHubToken, nil); err != nil {
		writeError(w, http.StatusBadRequest, "IMPORT_FAILED", err.Error())
		return
	}

	if !req.Fork {
		writeJSON(w, http.StatusOK, ImportResponse{
			Success: true,
			Message: "Repository ready for import",
			RepoURL: req.URL,
		})
		return
	}

	var forked struct {
		HTMLURL string `json:"html_url"`
	}
	if err := a.Importer.do(r.Context(), http.MethodPost, repoURL+"/forks", req.GitHubToken, &forked); err != nil {
		writeError(w, http.StatusBadRequest, "IMPORT_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Success: true,
		Message: "Repository forked successfully",
		RepoURL: forked.HTMLURL,
	})
}
