package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lysyi3m/headline-comb/app/api"
	"github.com/lysyi3m/headline-comb/app/cfg"
	"github.com/lysyi3m/headline-comb/app/database"
	"github.com/lysyi3m/headline-comb/app/ingest"
	"github.com/lysyi3m/headline-comb/app/metrics"
	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/lysyi3m/headline-comb/app/query"
	"github.com/lysyi3m/headline-comb/app/source"
	"github.com/lysyi3m/headline-comb/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
	}

	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		if !cfg.Reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	if appCfg == nil {
		return 0
	}

	setupLogger(appCfg.Debug)

	if err := cfg.ApplyTimezone(appCfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", appCfg.Timezone, "error", err)
	}

	slog.Info("Starting Headline Comb", "version", appCfg.Version, "command", appCfg.Command, "store", appCfg.Store)

	store, err := database.OpenStore(database.Options{
		Store:         appCfg.Store,
		DBPath:        appCfg.DBPath,
		DatabaseURL:   appCfg.DatabaseURL,
		RedisAddr:     appCfg.RedisAddr,
		RedisPassword: appCfg.RedisPassword,
		RedisDB:       appCfg.RedisDB,
	})
	if err != nil {
		slog.Error("Failed to open store", "store", appCfg.Store, "error", err)
		return 1
	}
	defer store.Close()

	m := metrics.New()

	switch appCfg.Command {
	case cfg.CommandServe:
		return serve(appCfg, store, m)
	case cfg.CommandIngest, cfg.CommandSchedule:
		runner, err := newRunner(appCfg, store, m)
		if err != nil {
			slog.Error("Failed to set up ingestion", "error", err)
			return 1
		}
		if appCfg.Command == cfg.CommandIngest {
			return ingestOnce(runner)
		}
		return schedule(appCfg, store, runner, m)
	default:
		slog.Error("Unknown command", "command", appCfg.Command)
		return 1
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

func loadSources(appCfg *cfg.Cfg) ([]*source.Config, error) {
	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		return nil, fmt.Errorf("failed to load source definitions: %w", err)
	}

	configs := configCache.GetEnabledConfigs()
	if configCache.GetConfigCount() == 0 {
		slog.Info("No source definitions found, using default NewsAPI source", "sources_dir", appCfg.SourcesDir)
		configs = []*source.Config{source.DefaultConfig(appCfg.NewsAPIURL)}
	}

	slog.Info("Sources loaded", "enabled", len(configs), "total", configCache.GetConfigCount())
	return configs, nil
}

func newRunner(appCfg *cfg.Cfg, store database.ArticleStore, m *metrics.Metrics) (*ingest.Runner, error) {
	configs, err := loadSources(appCfg)
	if err != nil {
		return nil, err
	}

	keyFunc, err := news.KeyFuncByName(appCfg.KeyScheme)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{}

	return ingest.NewRunner(ingest.RunnerOptions{
		Configs: configs,
		Client: source.ClientOptions{
			HTTPClient: httpClient,
			UserAgent:  appCfg.UserAgent,
			NewsAPIKey: appCfg.NewsAPIKey,
		},
		Store:         store,
		Key:           keyFunc,
		Extractor:     source.NewContentExtractor(httpClient, appCfg.UserAgent, time.Duration(source.DefaultTimeout)*time.Second),
		InsertWorkers: appCfg.InsertWorkers,
		Metrics:       m,
	})
}

func ingestOnce(runner *ingest.Runner) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.RunAll(ctx)

	encoder := json.NewEncoder(os.Stdout)
	if err != nil {
		encoder.Encode(api.ErrorResponse{Error: "Failed to fetch news", Details: err.Error()})
		return 1
	}

	encoder.Encode(api.MessageResponse{Message: result.Message()})
	return 0
}

func serve(appCfg *cfg.Cfg, store database.ArticleStore, m *metrics.Metrics) int {
	queryService := query.NewService(store, m, nil)
	handler := api.NewHandler(queryService, nil, nil)

	return listenAndServe(appCfg.Port, api.NewQueryServer(handler, m))
}

func schedule(appCfg *cfg.Cfg, store database.ArticleStore, runner *ingest.Runner, m *metrics.Metrics) int {
	jobs := make([]tasks.Job, 0, len(runner.Ingestors()))
	for _, ing := range runner.Ingestors() {
		jobs = append(jobs, tasks.Job{Ingester: ing, Interval: ing.Interval()})
	}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval, "sources", len(jobs))
	scheduler := tasks.NewScheduler(jobs, time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	scheduler.Start()
	defer func() {
		scheduler.Stop()
		slog.Info("Background scheduler stopped")
	}()

	queryService := query.NewService(store, m, nil)
	handler := api.NewHandler(queryService, runner, nil)

	return listenAndServe(appCfg.Port, api.NewIngestServer(handler, m))
}

func listenAndServe(port string, engine *gin.Engine) int {
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
		exitCode = 1
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return exitCode
}
