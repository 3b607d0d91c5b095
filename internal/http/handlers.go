package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Chanakya-ux/KGPT-client/internal/rag"
	"github.com/Chanakya-ux/KGPT-client/internal/types"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=http

// AnswerGenerator defines the interface for LLM answer generation
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, contextText, question string) (string, error)
}

// KnowledgeBase retrieves context for questions and ingests documents
type KnowledgeBase interface {
	Retrieve(ctx context.Context, question string) (string, error)
	Ingest(ctx context.Context, text string, docID string) (string, error)
}

// NoContextAnswer is sent when no ingested document matches the question.
const NoContextAnswer = "I don't have information about that yet."

type IngestReq struct {
	Text string `json:"text"`
	ID   string `json:"id,omitempty"`
}

type IngestResp struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// Handler serves the answer service endpoints
type Handler struct {
	knowledge KnowledgeBase
	generator AnswerGenerator
}

// NewHandlers initializes handlers with dependencies
func NewHandlers(knowledge KnowledgeBase, generator AnswerGenerator) *Handler {
	return &Handler{
		knowledge: knowledge,
		generator: generator,
	}
}

func (h *Handler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req types.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		serviceError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		serviceError(w, http.StatusBadRequest, "Question is required", nil)
		return
	}

	ctx := r.Context()

	contextText, err := h.knowledge.Retrieve(ctx, question)
	if errors.Is(err, rag.ErrNoRelevantDocuments) {
		slog.Info("No context for question", "question", question)
		writeJSON(w, http.StatusOK, types.QueryResponse{Answer: NoContextAnswer})
		return
	}
	if err != nil {
		slog.Error("Error retrieving context", "error", err, "question", question)
		serviceError(w, http.StatusInternalServerError, "Failed to retrieve context", err)
		return
	}

	answer, err := h.generator.GenerateAnswer(ctx, contextText, question)
	if err != nil {
		slog.Error("Error generating answer", "error", err, "question", question)
		serviceError(w, http.StatusInternalServerError, "Failed to generate answer", err)
		return
	}

	writeJSON(w, http.StatusOK, types.QueryResponse{Answer: answer})
}

func (h *Handler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req IngestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		serviceError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		serviceError(w, http.StatusBadRequest, "Text is required", nil)
		return
	}

	docID, err := h.knowledge.Ingest(r.Context(), req.Text, req.ID)
	if err != nil {
		slog.Error("Error ingesting document", "error", err, "doc_id", req.ID)
		serviceError(w, http.StatusInternalServerError, "Failed to ingest document", err)
		return
	}

	slog.Info("Ingested document", "doc_id", docID)
	writeJSON(w, http.StatusOK, IngestResp{Status: "success", ID: docID})
}

// HealthHandler reports that the process is serving.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serviceError writes the answer service error body. Clients show Detail to
// users.
func serviceError(w http.ResponseWriter, status int, message string, err error) {
	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}

	writeJSON(w, status, types.ServiceError{
		Detail:  detail,
		Message: http.StatusText(status),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err, "status", status)
	}
}
