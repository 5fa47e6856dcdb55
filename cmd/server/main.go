package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arteluz/post-grid/pkg/postgrid"
	"github.com/arteluz/post-grid/pkg/postgrid/api"
	"github.com/arteluz/post-grid/pkg/postgrid/config"
)

func main() {
	logger := newLogger(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		logger.Error("failed to load server configuration", "error", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService(logger)
	if err != nil {
		logger.Error("failed to build service", "error", err)
		os.Exit(1)
	}
	if !serverConfig.Configured() {
		logger.Warn("notion credentials missing; grid requests will return not-configured errors")
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(svc, serverConfig),
	}

	go func() {
		logger.Info("post-grid server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"max_records", serverConfig.MaxRecords,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}

func routes(svc postgrid.Service, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

				if req.Method == http.MethodOptions {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, req)
			})
		})
	}

	r.Get("/health", api.Health)
	r.Handle("/metrics", promhttp.Handler())

	gridHandler := api.NewGridHandler(svc)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/grid", gridHandler.Routes())
	})

	return r
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
