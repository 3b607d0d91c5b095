package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	httphandler "github.com/Chanakya-ux/KGPT-client/internal/http"
	"github.com/Chanakya-ux/KGPT-client/internal/logging"
	"github.com/Chanakya-ux/KGPT-client/internal/rag"
	"resty.dev/v3"
)

var errIngestRejected = errors.New("ingest request rejected")

func main() {
	dir := flag.String("dir", "testdata/docs", "Directory with .txt documents to ingest")
	flag.Parse()

	slog.SetDefault(slog.New(logging.NewHandler("text", os.Stderr, nil)))

	if flag.NArg() < 1 {
		slog.Error("Usage: ingest-test-data [-dir testdata/docs] <server-url>")
		os.Exit(1)
	}
	serverURL := flag.Arg(0)

	files, err := filepath.Glob(filepath.Join(*dir, "*.txt"))
	if err != nil {
		slog.Error("Failed to read testdata directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		slog.Error("No .txt files found", "dir", *dir)
		os.Exit(1)
	}

	client := resty.New().
		SetBaseURL(serverURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)
	defer client.Close()

	failed := 0
	for _, file := range files {
		if err := ingestFile(context.Background(), client, file); err != nil {
			slog.Error("Failed to ingest file", "file", file, "error", err)
			failed++
		}
	}

	if failed > 0 {
		slog.Error("Ingestion finished with failures", "failed", failed, "total", len(files))
		os.Exit(1)
	}
	slog.Info("Ingestion complete!", "total", len(files))
}

func ingestFile(ctx context.Context, client *resty.Client, file string) error {
	content, err := rag.LoadFile(file)
	if err != nil {
		return err
	}

	response, err := client.R().
		SetContext(ctx).
		SetBody(httphandler.IngestReq{Text: content, ID: filepath.Base(file)}).
		SetResult(&httphandler.IngestResp{}).
		Post("/ingest")
	if err != nil {
		return err
	}
	if response.IsError() {
		slog.Error("Ingest rejected", "file", file, "status", response.StatusCode(), "body", response.String())
		return errIngestRejected
	}

	result := response.Result().(*httphandler.IngestResp)
	slog.Info("Successfully ingested file", "file", file, "id", result.ID)
	return nil
}
