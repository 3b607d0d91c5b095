package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter routes the answer service endpoints.
func NewRouter(h *Handler) http.Handler {
	r := newBaseRouter()
	r.Get("/health", HealthHandler)
	r.Post("/query", h.QueryHandler)
	r.Post("/ingest", h.IngestHandler)
	return r
}

// NewGatewayRouter routes the chat gateway endpoints.
func NewGatewayRouter(g *Gateway) http.Handler {
	r := newBaseRouter()
	r.Get("/health", HealthHandler)
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", g.AskHandler)
		r.Get("/suggestions", g.SuggestionsHandler)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", g.CreateSessionHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", g.GetSessionHandler)
				r.Delete("/", g.DeleteSessionHandler)
				r.Post("/messages", g.SendMessageHandler)
			})
		})
	})
	return r
}

func newBaseRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	return r
}

// requestLogger logs one line per request with slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			slog.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
