package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/kova98/nearmatch.api/config"
	"github.com/kova98/nearmatch.api/data"
	"github.com/kova98/nearmatch.api/data/repos"
	"github.com/kova98/nearmatch.api/handlers"
	"github.com/kova98/nearmatch.api/language"
	"github.com/kova98/nearmatch.api/metrics"
	"github.com/kova98/nearmatch.api/scan"
)

var (
	auth     *handlers.AuthHandler
	recorder *metrics.Recorder
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", config.Config.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(90)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder = metrics.NewRecorder(registry)

	searcher, err := scan.NewSearcher(config.Config.SearchWorkers, recorder)
	if err != nil {
		slog.Error("failed to create searcher", "error", err)
		os.Exit(1)
	}
	defer searcher.Release()

	usersRepo := repos.NewUserRepo(db)
	entryRepo := repos.NewEntryRepo(db)
	grantRepo := repos.NewGrantRepo(db)

	users := handlers.NewUserHandler(usersRepo, entryRepo)
	entries := handlers.NewEntryHandler(entryRepo, grantRepo, usersRepo, language.NewDetector(), config.Config.MaxEntryLength)
	search := handlers.NewSearchHandler(searcher, entryRepo, config.Config.MaxEntryLength, config.Config.MaxTermLength)
	keycloakClient := gocloak.NewClient(config.Config.KeycloakURL)
	auth = handlers.NewAuthHandler(keycloakClient)

	limiter := rate.NewLimiter(rate.Limit(config.Config.SearchRateLimit), config.Config.SearchRateBurst)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /search", public(handlers.RateLimited(limiter, search.PostSearch)))
	mux.HandleFunc("GET /search", optional(search.GetSearch))

	mux.HandleFunc("POST /users/init", private(users.InitializeUser))
	mux.HandleFunc("GET /users/me", private(users.GetCurrentUser))

	mux.HandleFunc("POST /entries", private(entries.CreateEntry))
	mux.HandleFunc("GET /entries", private(entries.GetEntries))
	mux.HandleFunc("POST /entries/search", private(search.SearchEntries))
	mux.HandleFunc("GET /entries/{id}", private(entries.GetEntry))
	mux.HandleFunc("PUT /entries/{id}", private(entries.UpdateEntry))
	mux.HandleFunc("DELETE /entries/{id}", private(entries.DeleteEntry))
	mux.HandleFunc("POST /entries/{id}/grants", private(entries.GrantAccess))
	mux.HandleFunc("DELETE /entries/{id}/grants/{userId}", private(entries.RevokeAccess))

	mux.Handle("GET /metrics", metrics.Handler(registry))

	server := &http.Server{
		Addr:              ":" + config.Config.Port,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("Starting server", "port", config.Config.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to start server", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("failed to close database connection", "error", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func private(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := auth.GetUser(r)
		if result.Code != http.StatusOK {
			slog.Debug("unauthorized request", "path", r.URL.Path)
			writeResult(w, r, result)
			return
		}

		user := result.Body.(data.User)
		ctx := handlers.WithUser(r.Context(), user)

		public(handler)(w, r.WithContext(ctx))
	}
}

// optional attaches the user when the request carries credentials and
// serves it anonymously otherwise. Bad credentials are still rejected.
func optional(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !handlers.HasCredentials(r) {
			public(handler)(w, r)
			return
		}
		private(handler)(w, r)
	}
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, r, res)
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, res handlers.Result) {
	recorder.ObserveRequest(r.Pattern, res.Code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
