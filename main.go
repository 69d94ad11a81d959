package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/varsilias/ollama-chat-api/internal/api"
	"github.com/varsilias/ollama-chat-api/internal/buildinfo"
	"github.com/varsilias/ollama-chat-api/internal/chat"
	"github.com/varsilias/ollama-chat-api/internal/config"
	"github.com/varsilias/ollama-chat-api/internal/logging"
	"github.com/varsilias/ollama-chat-api/internal/models"
	"github.com/varsilias/ollama-chat-api/internal/ollama"
	"github.com/varsilias/ollama-chat-api/internal/render"
)

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogJSON)
	logger.Info("build", "version", buildinfo.Version, "commit", buildinfo.Commit, "built_at", buildinfo.BuiltAt)

	oc := ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Timeout, logger)
	backend, modelsMgr := setupBackend(oc, cfg.Ollama, logger)

	chatCtrl := chat.NewController(logger, backend, chat.NewQuestionChain(backend))
	h := api.NewHandlers(logger, chatCtrl, modelsMgr, render.NewMarkdown(render.DefaultStyle))

	server := http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(logger, h, cfg.AllowedOrigins()),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// no WriteTimeout: a reply takes as long as the model takes
		IdleTimeout: 120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() { errChan <- server.ListenAndServe() }()
	logger.Info("Server is running", "port", cfg.Port, "ollama", cfg.Ollama.BaseURL, "model", cfg.Ollama.Model)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	} else {
		logger.Info("server stopped")
	}
}

// setupBackend prefers Ollama. The echo backend is only used when Ollama is
// unreachable at startup and ECHO_FALLBACK is set; otherwise requests go to
// Ollama regardless and fail with 500 until it comes up.
func setupBackend(oc *ollama.Client, cfg config.OllamaConfig, logger *slog.Logger) (chat.Backend, models.Manager) {
	mgr := models.NewOllamaManager(oc)

	if cfg.Wait {
		logger.Info("waiting for Ollama", "timeout", cfg.WaitTimeout.String(), "interval", cfg.WaitInterval.String())
		// a model we are about to pull cannot be waited for
		required := []string{cfg.Model}
		if cfg.Pull {
			required = nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.WaitTimeout)
		err := models.WaitReady(ctx, oc, mgr, required, cfg.WaitInterval, logger)
		cancel()
		if err != nil {
			logger.Warn("Ollama wait timed out", "err", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := oc.Ping(pingCtx)
	cancel()

	if err != nil {
		if cfg.EchoFallback {
			logger.Warn("ollama not reachable; falling back to echo backend", "err", err)
			return chat.NewEchoBackend(30 * time.Millisecond), models.NewStaticManager([]string{"echo"})
		}
		logger.Warn("ollama not reachable; requests will fail until it is", "err", err)
		return chat.NewOllamaBackend(oc, cfg.Model), mgr
	}

	if err := models.Ensure(context.Background(), mgr, cfg.Model, cfg.Pull, logger); err != nil {
		logger.Warn("model not available", "model", cfg.Model, "err", err)
	} else {
		logger.Info("ollama ready", "model", cfg.Model)
	}
	return chat.NewOllamaBackend(oc, cfg.Model), mgr
}
