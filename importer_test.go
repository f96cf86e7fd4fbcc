package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	owner, repo, err := parseRepoURL("https://github.com/octo/site")
	require.NoError(t, err)
	require.Equal(t, "octo", owner)
	require.Equal(t, "site", repo)

	owner, repo, err = parseRepoURL("github.com/octo/site/")
	require.NoError(t, err)
	require.Equal(t, "octo", owner)
	require.Equal(t, "site", repo)

	_, _, err = parseRepoURL("https://gitlab.com/octo/site")
	require.Error(t, err)

	_, _, err = parseRepoURL("https://github.com/octo")
	require.Error(t, err)
}

func newImportApp(t *testing.T, handler http.Handler) *App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	app := newTestApp(t, nil)
	app.Importer.APIEndpoint = srv.URL
	return app
}

func TestHandleImport_Validate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/site", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token gh-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	app := newImportApp(t, mux)

	rec := doJSON(t, app.Router(), "POST", "/api/import", "", ImportRequest{
		URL:         "https://github.com/octo/site",
		GitHubToken: "gh-token",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "https://github.com/octo/site", resp.RepoURL)
}

func TestHandleImport_Fork(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/site", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/repos/octo/site/forks", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"html_url": "https://github.com/me/site"})
	})
	app := newImportApp(t, mux)

	rec := doJSON(t, app.Router(), "POST", "/api/import", "", ImportRequest{
		URL:         "https://github.com/octo/site",
		Fork:        true,
		GitHubToken: "gh-token",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "https://github.com/me/site", resp.RepoURL)
}

func TestHandleImport_MissingToken(t *testing.T) {
	app := newTestApp(t, nil)

	rec := doJSON(t, app.Router(), "POST", "/api/import", "", ImportRequest{URL: "https://github.com/octo/site"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleImport_BadURL(t *testing.T) {
	app := newTestApp(t, nil)

	rec := doJSON(t, app.Router(), "POST", "/api/import", "", ImportRequest{URL: "https://example.com/x", GitHubToken: "t"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImport_RepoMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/site", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	app := newImportApp(t, mux)

	rec := doJSON(t, app.Router(), "POST", "/api/import", "", ImportRequest{
		URL:         "https://github.com/octo/site",
		GitHubToken: "gh-token",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "IMPORT_FAILED", decodeAPIError(t, rec).Code)
}
