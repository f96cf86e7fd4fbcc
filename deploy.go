package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Deployer pushes a set of project files to a hosting provider. It is a
// stateless pass-through: every request carries its own provider API key
// and the identity core never calls it.
type Deployer struct {
	// Endpoints are fields so tests can point at fake providers.
	NetlifyEndpoint string
	VercelEndpoint  string

	http *http.Client
}

func NewDeployer() *Deployer {
	return &Deployer{
		NetlifyEndpoint: "https://api.netlify.com/api/v1",
		VercelEndpoint:  "https://api.vercel.com/v12",
		http:            &http.Client{Timeout: 30 * time.Second},
	}
}

type DeployRequest struct {
	SiteName string            `json:"site_name"`
	Provider string            `json:"provider"` // "netlify" or "vercel"
	Files    map[string]string `json:"files"`
	APIKey   string            `json:"api_key"`
}

type DeployResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

func (d *Deployer) postJSON(ctx context.Context, endpoint, apiKey string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, detail)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// deployNetlify creates the site, then pushes the files as a deploy.
func (d *Deployer) deployNetlify(ctx context.Context, req DeployRequest) (string, error) {
	site := map[string]interface{}{
		"name":          req.SiteName,
		"custom_domain": req.SiteName + ".netlify.app",
	}
	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := d.postJSON(ctx, d.NetlifyEndpoint+"/sites", req.APIKey, site, &created); err != nil {
		return "", fmt.Errorf("creating netlify site: %w", err)
	}

	deploy := map[string]interface{}{
		"files": req.Files,
		"draft": false,
	}
	if err := d.postJSON(ctx, d.NetlifyEndpoint+"/sites/"+created.ID+"/deploys", req.APIKey, deploy, nil); err != nil {
		return "", fmt.Errorf("deploying to netlify: %w", err)
	}
	return created.URL, nil
}

func (d *Deployer) deployVercel(ctx context.Context, req DeployRequest) (string, error) {
	deploy := map[string]interface{}{
		"name":  req.SiteName,
		"files": req.Files,
		"projectSettings": map[string]interface{}{
			"framework":    nil, // auto-detect
			"buildCommand": nil,
		},
	}
	var created struct {
		URL string `json:"url"`
	}
	if err := d.postJSON(ctx, d.VercelEndpoint+"/deployments", req.APIKey, deploy, &created); err != nil {
		return "", fmt.Errorf("deploying to vercel: %w", err)
	}
	return created.URL, nil
}

func (a *App) HandleDeploy(w http.ResponseWriter, r *http.Request) {
	var req DeployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.SiteName == "" || req.APIKey == "" || len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "site_name, api_key and files are required")
		return
	}

	var (
		url string
		err error
	)
	switch req.Provider {
	case "netlify":
		url, err = a.Deployer.deployNetlify(r.Context(), req)
	case "vercel":
		url, err = a.Deployer.deployVercel(r.Context(), req)
	default:
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported provider: "+req.Provider)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "DEPLOY_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DeployResponse{
		Success: true,
		Message: "Successfully deployed to " + req.Provider,
		URL:     url,
	})
}
