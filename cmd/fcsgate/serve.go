package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zxpress/fcsgate/internal/domain/kwic"
	logpkg "github.com/zxpress/fcsgate/internal/logger"
	"github.com/zxpress/fcsgate/internal/metrics"
	"github.com/zxpress/fcsgate/internal/query"
	"github.com/zxpress/fcsgate/internal/repository/corpus"
	chiTransport "github.com/zxpress/fcsgate/internal/transport/chi"
	healthuc "github.com/zxpress/fcsgate/internal/usecase/health"
	searchuc "github.com/zxpress/fcsgate/internal/usecase/search"
	"github.com/zxpress/fcsgate/internal/version"
)

func runServe(ctx context.Context) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fcsgate SRU server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("sru_path", cfg.HTTP.SRUPath),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index", cfg.Index.Name),
	)

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Database unavailable", zap.Error(err))
		return err
	}
	defer store.Close()
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSRUMetrics()
	metrics.RegisterEngineMetrics()

	repo := corpus.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
	if cfg.Index.CreateIfMissing {
		created, err := repo.EnsureIndex(ctx)
		if err != nil {
			logger.Error("Failed to ensure corpus index", zap.Error(err))
			return fmt.Errorf("ensure index: %w", err)
		}
		logger.Info("Corpus index ready", zap.String("index", repo.IndexName()), zap.Bool("created", created))
	}

	translator := query.New(query.Config{
		Forms:     cfg.Query.Forms,
		Languages: cfg.Query.Languages,
	})
	searchSvc := searchuc.New(repo, translator, searchuc.Config{
		FetchCap: cfg.Index.MaxFetch,
		KWIC: kwic.Options{
			WindowChars: cfg.KWIC.WindowChars,
			WindowWords: cfg.KWIC.WindowWords,
			MaxSnippets: cfg.KWIC.MaxSnippets,
		},
	})
	healthSvc := healthuc.New(store, repo)

	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.Capabilities(corpus.Fields()), logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		SRUPath:        cfg.HTTP.SRUPath,
		APIKeys:        cfg.Auth.APIKeys,
		AllowedOrigins: cfg.HTTP.CORS.AllowedOrigins,
		CORSMaxAge:     cfg.HTTP.CORS.MaxAgeSec,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
