package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Chanakya-ux/KGPT-client/internal/chat"
	"github.com/Chanakya-ux/KGPT-client/internal/types"
	"github.com/go-chi/chi/v5"
)

// Gateway serves the chat widget: a stateless ask endpoint and in-memory
// chat sessions, both backed by the answer service.
type Gateway struct {
	asker             chat.Asker
	sessions          *SessionStore
	maxQuestionLength int
}

type sessionView struct {
	ID          string         `json:"id"`
	Loading     bool           `json:"loading"`
	Messages    []chat.Message `json:"messages"`
	Days        []chat.Day     `json:"days"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

type replyResp struct {
	Reply chat.Message `json:"reply"`
}

// NewGateway creates the gateway. Sessions are created with the same asker
// and question limit.
func NewGateway(asker chat.Asker, maxQuestionLength int) *Gateway {
	g := &Gateway{
		asker:             asker,
		maxQuestionLength: maxQuestionLength,
	}
	g.sessions = NewSessionStore(func() *chat.Session {
		return chat.NewSession(asker, chat.WithMaxQuestionLength(maxQuestionLength))
	})
	return g
}

// Sessions exposes the session store.
func (g *Gateway) Sessions() *SessionStore {
	return g.sessions
}

// AskHandler forwards one question and returns the answer result as is.
// Failures of the answer service are reported inside the result with 200.
func (g *Gateway) AskHandler(w http.ResponseWriter, r *http.Request) {
	question, ok := g.decodeQuestion(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, g.asker.Ask(r.Context(), question))
}

func (g *Gateway) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": chat.DefaultSuggestions()})
}

func (g *Gateway) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	session := g.sessions.Create()
	slog.Info("Created chat session", "session_id", session.ID())
	writeJSON(w, http.StatusCreated, viewOf(session))
}

func (g *Gateway) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := g.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(session))
}

func (g *Gateway) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := g.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	session, err := g.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	question, ok := g.decodeQuestion(w, r)
	if !ok {
		return
	}

	reply, err := session.Send(r.Context(), question)
	var askErr *chat.AskError
	switch {
	case errors.Is(err, chat.ErrBusy):
		errorResponse(w, http.StatusConflict, "A question is already being answered", nil)
	case errors.Is(err, chat.ErrInvalidQuestion):
		errorResponse(w, http.StatusBadRequest, "Invalid question", err)
	case errors.As(err, &askErr):
		slog.Error("Answer service failed", "error", askErr.Message, "session_id", session.ID())
		errorResponse(w, http.StatusBadGateway, askErr.Message, nil)
	case err != nil:
		errorResponse(w, http.StatusInternalServerError, "Failed to send question", err)
	default:
		writeJSON(w, http.StatusOK, replyResp{Reply: reply})
	}
}

// decodeQuestion reads and validates the {"question": ...} body. It writes
// the error response itself and reports whether the caller may continue.
func (g *Gateway) decodeQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	defer r.Body.Close()

	var req types.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return "", false
	}
	if err := chat.ValidateQuestion(req.Question, g.maxQuestionLength); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid question", err)
		return "", false
	}
	return strings.TrimSpace(req.Question), true
}

func viewOf(s *chat.Session) sessionView {
	messages := s.Messages()
	return sessionView{
		ID:          s.ID(),
		Loading:     s.Loading(),
		Messages:    messages,
		Days:        chat.GroupByDay(messages),
		Suggestions: s.SuggestedQuestions(),
	}
}

func errorResponse(w http.ResponseWriter, status int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = message + ": " + err.Error()
	}

	writeJSON(w, status, types.ErrorResponse{
		Error:   http.StatusText(status),
		Message: errorMsg,
	})
}
