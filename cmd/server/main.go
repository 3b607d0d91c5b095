package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chanakya-ux/KGPT-client/internal/config"
	"github.com/Chanakya-ux/KGPT-client/internal/llm"
	"github.com/Chanakya-ux/KGPT-client/internal/logging"
	"github.com/Chanakya-ux/KGPT-client/internal/rag"

	httphandler "github.com/Chanakya-ux/KGPT-client/internal/http"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		slog.Error("Failed to load environment files", "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadServerConfig(os.Args[1:])
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := logging.Init(cfg.Log); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	prompts, err := llm.LoadPrompts(cfg.PromptDir)
	if err != nil {
		slog.Error("Failed to load prompts", "error", err, "dir", cfg.PromptDir)
		os.Exit(1)
	}

	// Initialize LLM client
	llmOpts := []llm.ClientOption{llm.WithPrompts(prompts), llm.WithTemperature(cfg.Temperature)}
	if cfg.OpenAIBaseURL != "" {
		llmOpts = append(llmOpts, llm.WithBaseURL(cfg.OpenAIBaseURL))
	}
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbedModel, llmOpts...)
	slog.Info("Initialized OpenAI client", "model", cfg.OpenAIModel, "embed_model", cfg.OpenAIEmbedModel)

	// Initialize Qdrant store
	store, err := rag.NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection)
	if err != nil {
		slog.Error("Failed to create Qdrant client", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Initialized Qdrant client", "host", cfg.QdrantHost, "collection", cfg.QdrantCollection)

	chunker := rag.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	slog.Info("Initialized chunker", "size", cfg.ChunkSize, "overlap", cfg.ChunkOverlap)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	pipeline, err := rag.NewPipeline(initCtx, chunker, llmClient, store, uint64(cfg.EmbedDimensions), cfg.SearchLimit)
	initCancel()
	if err != nil {
		slog.Error("Failed to create RAG pipeline", "error", err)
		store.Close()
		os.Exit(1)
	}
	slog.Info("Initialized RAG pipeline")

	handler := httphandler.NewHandlers(pipeline, llmClient)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           httphandler.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server exited")
}
