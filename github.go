package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GitHubOAuth turns an OAuth authorization code into a verified federated
// profile. GitHub issues plain OAuth 2.0 tokens without ID tokens, so the
// profile and email have to be fetched with separate API calls.
type GitHubOAuth struct {
	ClientID     string
	ClientSecret string

	// Endpoints are fields so tests can point the adapter at a fake server.
	TokenEndpoint string
	UserEndpoint  string
	EmailEndpoint string

	http *http.Client
}

func NewGitHubOAuth(clientID, clientSecret string) *GitHubOAuth {
	return &GitHubOAuth{
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		TokenEndpoint: "https://github.com/login/oauth/access_token",
		UserEndpoint:  "https://api.github.com/user",
		EmailEndpoint: "https://api.github.com/user/emails",
		http:          &http.Client{Timeout: 10 * time.Second},
	}
}

type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

type githubUser struct {
	Login   string `json:"login"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ExchangeCode exchanges an authorization code for an access token.
func (g *GitHubOAuth) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var tr githubTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrExchangeFailed, err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("%w: %s - %s", ErrExchangeFailed, tr.Error, tr.ErrorDesc)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response", ErrExchangeFailed)
	}
	return tr.AccessToken, nil
}

func (g *GitHubOAuth) apiGet(ctx context.Context, endpoint, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api error: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Authenticate runs the full federation sequence: exchange the code,
// fetch the user's profile, fetch the address marked primary. The three
// calls are sequential and short-circuit on the first failure; nothing is
// persisted here.
func (g *GitHubOAuth) Authenticate(ctx context.Context, code string) (*FederatedProfile, error) {
	accessToken, err := g.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var user githubUser
	if err := g.apiGet(ctx, g.UserEndpoint, accessToken, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}

	var emails []githubEmail
	if err := g.apiGet(ctx, g.EmailEndpoint, accessToken, &emails); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}

	primary := ""
	for _, e := range emails {
		if e.Primary {
			primary = e.Email
			break
		}
	}
	if primary == "" {
		return nil, ErrNoPrimaryEmail
	}

	return &FederatedProfile{
		Login:   user.Login,
		Name:    user.Name,
		Company: user.Company,
		Email:   primary,
	}, nil
}
