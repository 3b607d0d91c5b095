package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httphandler "github.com/Chanakya-ux/KGPT-client/internal/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat gateway HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.GatewayPort = port
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client := a.newAnswerClient()
			defer client.Close()

			gateway := httphandler.NewGateway(client, a.cfg.MaxQuestionLength)
			server := &http.Server{
				Addr:              ":" + a.cfg.GatewayPort,
				Handler:           httphandler.NewGatewayRouter(gateway),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, server, client.Endpoint())
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides GATEWAY_PORT)")
	return command
}

// serve runs server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, endpoint string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Gateway running", "addr", server.Addr, "endpoint", endpoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("gateway failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down gateway...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gateway: %w", err)
	}
	slog.Info("Gateway exited")
	return nil
}
