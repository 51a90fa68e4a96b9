package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"marklet-proxy/internal/common/config"
	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/common/observability"
	"marklet-proxy/internal/completion"
	"marklet-proxy/internal/pipeline"
	"marklet-proxy/internal/policy"
	"marklet-proxy/internal/prompt"
	"marklet-proxy/internal/search"
	"marklet-proxy/internal/server"
	"marklet-proxy/internal/title"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting marklet-proxy",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
	defer obs.Shutdown()

	augmenter := search.NewAugmenter(&search.Config{
		BaseURL:    cfg.APIs.WebSearch.BaseURL,
		APIKey:     cfg.APIs.WebSearch.APIKey,
		EngineID:   cfg.APIs.WebSearch.EngineID,
		Timeout:    config.GetDuration(cfg.APIs.WebSearch.Timeout),
		MaxResults: cfg.APIs.WebSearch.MaxResults,
		Triggers:   cfg.Pipeline.SearchTriggers,
		Qualifier:  cfg.Pipeline.SearchQualifier,
	}, log)

	completions := completion.NewClient(&completion.Config{
		BaseURL: cfg.APIs.GenAI.BaseURL,
		APIKey:  cfg.APIs.GenAI.APIKey,
		Model:   cfg.APIs.GenAI.Model,
		Timeout: config.GetDuration(cfg.APIs.GenAI.Timeout),
	}, log)

	service := pipeline.NewService(
		augmenter,
		prompt.NewComposer(cfg.Pipeline.HistoryWindow),
		completions,
		policy.NewFilter(cfg.Pipeline.NetworkPatterns, cfg.Pipeline.SensitiveKeywords, log),
		title.NewSummarizer(completions, cfg.Pipeline.TitleMaxTokens, cfg.Pipeline.TitleTemperature, log),
		obs,
		cfg.Pipeline.MaxTokens,
		cfg.Pipeline.Temperature,
		log,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: server.NewServer(service, cfg, log).Router(),
	}

	go func() {
		zapLog.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}
