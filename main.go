package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cfg "github.com/example/forgeauth/internal/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"
)

// App holds the wired-up service plus its stateless collaborators.
type App struct {
	Store          Store
	Accounts       *AccountService
	Deployer       *Deployer
	Importer       *Importer
	AllowedOrigins []string
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

// Router wires middleware and routes. Split out of main so tests can
// serve the exact same surface.
func (a *App) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(RequestID)
	r.Use(a.Logging)
	r.Use(a.CORS)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !a.Store.Ping() {
			w.WriteHeader(503)
			w.Write([]byte(`{"ready":false}`))
			return
		}
		w.WriteHeader(200)
		w.Write([]byte(`{"ready":true}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", a.HandleRegister).Methods("POST")
	api.HandleFunc("/auth/login", a.HandleLogin).Methods("POST")
	api.HandleFunc("/auth/github", a.HandleGitHubLogin).Methods("POST")
	api.HandleFunc("/auth/me", a.HandleGetProfile).Methods("GET")
	api.HandleFunc("/auth/me", a.HandleUpdateProfile).Methods("PUT")
	api.HandleFunc("/deploy", a.HandleDeploy).Methods("POST")
	api.HandleFunc("/import", a.HandleImport).Methods("POST")

	return r
}

func main() {
	c, err := cfg.New()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	jwtSecret = []byte(c.SessionSecret)
	if c.SessionSecret == "change-me" {
		log.Println("WARNING: using development SESSION_SECRET; set SESSION_SECRET before exposing this service")
	}

	var store Store
	switch c.StoreAdapter {
	case "sqlite":
		s, err := NewSQLiteStore(c.SQLiteFile)
		if err != nil {
			log.Fatalf("sqlite init: %v", err)
		}
		store = s
	case "postgres":
		dsn, err := c.BuildPostgresDSN()
		if err != nil {
			log.Fatalf("postgres config error: %v", err)
		}
		log.Println("applying database migrations...")
		if err := ApplyMigrations("./migrations", dsn); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		p, err := NewPostgresStore(dsn)
		if err != nil {
			log.Fatalf("postgres init: %v", err)
		}
		store = p
		log.Println("connected to PostgreSQL database")
	case "memory":
		log.Println("using in-memory store (not recommended for production)")
		store = NewMemoryStore()
	default:
		log.Fatalf("unsupported STORE_ADAPTER: %s (supported: postgres, sqlite, memory)", c.StoreAdapter)
	}

	app := &App{
		Store:          store,
		Accounts:       NewAccountService(store, NewGitHubOAuth(c.GitHubClientID, c.GitHubClientSecret)),
		Deployer:       NewDeployer(),
		Importer:       NewImporter(),
		AllowedOrigins: c.AllowedOrigins,
	}

	srv := &http.Server{Handler: app.Router(), Addr: ":" + c.Port, ReadTimeout: 5 * time.Second, WriteTimeout: 60 * time.Second}

	go func() {
		log.Println("starting forgeauth on", c.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.Store.Close()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("server exited properly")
}
