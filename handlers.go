package main

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (a *App) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required")
		return
	}

	resp, err := a.Accounts.Register(req)
	if err != nil {
		authAttempts.WithLabelValues("register", "failure").Inc()
		writeServiceError(w, err)
		return
	}
	authAttempts.WithLabelValues("register", "success").Inc()
	writeJSON(w, http.StatusCreated, resp)
}

func (a *App) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required")
		return
	}

	resp, err := a.Accounts.Login(req)
	if err != nil {
		authAttempts.WithLabelValues("login", "failure").Inc()
		writeServiceError(w, err)
		return
	}
	authAttempts.WithLabelValues("login", "success").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	var req FederatedLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Authorization code is required")
		return
	}

	resp, err := a.Accounts.FederatedLogin(r.Context(), req.Code)
	if err != nil {
		authAttempts.WithLabelValues("github", "failure").Inc()
		writeServiceError(w, err)
		return
	}
	authAttempts.WithLabelValues("github", "success").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "TOKEN_INVALID", "Bearer token required")
		return
	}
	resp, err := a.Accounts.GetProfile(token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "TOKEN_INVALID", "Bearer token required")
		return
	}
	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	resp, err := a.Accounts.UpdateProfile(token, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// bearerToken pulls the session token out of the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return token, token != ""
}
