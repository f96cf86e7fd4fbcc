package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newDeployApp(t *testing.T, provider http.Handler) (*App, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)

	app := newTestApp(t, nil)
	app.Deployer.NetlifyEndpoint = srv.URL
	app.Deployer.VercelEndpoint = srv.URL
	return app, srv
}

func TestHandleDeploy_Netlify(t *testing.T) {
	var sawAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/sites", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "site-1", "url": "https://demo.netlify.app"})
	})
	mux.HandleFunc("/sites/site-1/deploys", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"id": "deploy-1"})
	})
	app, _ := newDeployApp(t, mux)

	rec := doJSON(t, app.Router(), "POST", "/api/deploy", "", DeployRequest{
		SiteName: "demo",
		Provider: "netlify",
		Files:    map[string]string{"/index.html": "<html></html>"},
		APIKey:   "nl-key",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeployResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "https://demo.netlify.app", resp.URL)
	require.Equal(t, "Bearer nl-key", sawAuth)
}

func TestHandleDeploy_Vercel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/deployments", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "demo", payload["name"])
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"url": "demo.vercel.app"})
	})
	app, _ := newDeployApp(t, mux)

	rec := doJSON(t, app.Router(), "POST", "/api/deploy", "", DeployRequest{
		SiteName: "demo",
		Provider: "vercel",
		Files:    map[string]string{"/index.html": "<html></html>"},
		APIKey:   "vc-key",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeployResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "demo.vercel.app", resp.URL)
}

func TestHandleDeploy_UnknownProvider(t *testing.T) {
	app := newTestApp(t, nil)

	rec := doJSON(t, app.Router(), "POST", "/api/deploy", "", DeployRequest{
		SiteName: "demo",
		Provider: "surge",
		Files:    map[string]string{"/index.html": "x"},
		APIKey:   "k",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDeploy_ProviderRejects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sites", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})
	app, _ := newDeployApp(t, mux)

	rec := doJSON(t, app.Router(), "POST", "/api/deploy", "", DeployRequest{
		SiteName: "demo",
		Provider: "netlify",
		Files:    map[string]string{"/index.html": "x"},
		APIKey:   "bad",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "DEPLOY_FAILED", decodeAPIError(t, rec).Code)
}

func TestHandleDeploy_Validation(t *testing.T) {
	app := newTestApp(t, nil)

	rec := doJSON(t, app.Router(), "POST", "/api/deploy", "", DeployRequest{Provider: "netlify"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
