package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Terminal, user-visible failures. All of these are reported to the
// caller as-is; nothing in this service retries.
var (
	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrExchangeFailed     = errors.New("github code exchange failed")
	ErrProfileFailed      = errors.New("github profile fetch failed")
	ErrNoPrimaryEmail     = errors.New("github account has no primary email")
)

// APIError is the structured error envelope every failure is written as.
type APIError struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
	Details string `json:"details,omitempty"`
}

// writeError writes a structured error response
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
	})
}

// writeServiceError maps a domain error onto the HTTP surface. Anything
// outside the taxonomy is a storage or programming fault: it gets logged
// with detail and reported without it.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "ALREADY_REGISTERED", "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "TOKEN_INVALID", "Invalid token")
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrExchangeFailed):
		writeError(w, http.StatusUnauthorized, "GITHUB_EXCHANGE_FAILED", "Failed to connect to GitHub")
	case errors.Is(err, ErrProfileFailed):
		writeError(w, http.StatusUnauthorized, "GITHUB_PROFILE_FAILED", "Invalid response from GitHub")
	case errors.Is(err, ErrNoPrimaryEmail):
		writeError(w, http.StatusUnauthorized, "GITHUB_NO_PRIMARY_EMAIL", "GitHub account has no primary email")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
