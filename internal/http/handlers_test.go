package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Chanakya-ux/KGPT-client/internal/answer"
	"github.com/Chanakya-ux/KGPT-client/internal/rag"
	"github.com/Chanakya-ux/KGPT-client/internal/types"
	"github.com/golang/mock/gomock"
)

func encodeBody(t *testing.T, body interface{}) []byte {
	t.Helper()
	if str, ok := body.(string); ok {
		return []byte(str)
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	return data
}

func TestHandler_QueryHandler(t *testing.T) {
	tests := []struct {
		name         string
		requestBody  interface{}
		setupMocks   func(*MockKnowledgeBase, *MockAnswerGenerator)
		wantStatus   int
		wantContains string
	}{
		{
			name:        "successful query",
			requestBody: types.QueryRequest{Question: "When is Spring Fest?"},
			setupMocks: func(kb *MockKnowledgeBase, gen *MockAnswerGenerator) {
				kb.EXPECT().
					Retrieve(gomock.Any(), "When is Spring Fest?").
					Return("Spring Fest is held in January", nil)
				gen.EXPECT().
					GenerateAnswer(gomock.Any(), "Spring Fest is held in January", "When is Spring Fest?").
					Return("Spring Fest is in January.", nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: `"answer":"Spring Fest is in January."`,
		},
		{
			name:         "invalid JSON",
			requestBody:  "invalid json",
			setupMocks:   func(*MockKnowledgeBase, *MockAnswerGenerator) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: `"detail":"Invalid request body`,
		},
		{
			name:         "empty question",
			requestBody:  types.QueryRequest{Question: "  "},
			setupMocks:   func(*MockKnowledgeBase, *MockAnswerGenerator) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: `"detail":"Question is required"`,
		},
		{
			name:        "no relevant documents",
			requestBody: types.QueryRequest{Question: "Who won the 1950 cricket final?"},
			setupMocks: func(kb *MockKnowledgeBase, gen *MockAnswerGenerator) {
				kb.EXPECT().
					Retrieve(gomock.Any(), "Who won the 1950 cricket final?").
					Return("", fmt.Errorf("search: %w", rag.ErrNoRelevantDocuments))
			},
			wantStatus:   http.StatusOK,
			wantContains: NoContextAnswer,
		},
		{
			name:        "retrieve fails",
			requestBody: types.QueryRequest{Question: "test question"},
			setupMocks: func(kb *MockKnowledgeBase, gen *MockAnswerGenerator) {
				kb.EXPECT().
					Retrieve(gomock.Any(), "test question").
					Return("", errors.New("retrieve error"))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: "Failed to retrieve context: retrieve error",
		},
		{
			name:        "LLM generation fails",
			requestBody: types.QueryRequest{Question: "test question"},
			setupMocks: func(kb *MockKnowledgeBase, gen *MockAnswerGenerator) {
				kb.EXPECT().
					Retrieve(gomock.Any(), "test question").
					Return("context text", nil)
				gen.EXPECT().
					GenerateAnswer(gomock.Any(), "context text", "test question").
					Return("", errors.New("LLM error"))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: "Failed to generate answer: LLM error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockKB := NewMockKnowledgeBase(ctrl)
			mockGen := NewMockAnswerGenerator(ctrl)
			tt.setupMocks(mockKB, mockGen)

			handler := NewHandlers(mockKB, mockGen)

			req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBuffer(encodeBody(t, tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.QueryHandler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("QueryHandler() status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !bytes.Contains(w.Body.Bytes(), []byte(tt.wantContains)) {
				t.Errorf("QueryHandler() body = %s, want containing %q", w.Body.String(), tt.wantContains)
			}
		})
	}
}

func TestHandler_IngestHandler(t *testing.T) {
	tests := []struct {
		name        string
		requestBody interface{}
		setupMocks  func(*MockKnowledgeBase)
		wantStatus  int
		wantID      string
	}{
		{
			name:        "successful ingestion",
			requestBody: IngestReq{Text: "Spring Fest is in January", ID: "calendar"},
			setupMocks: func(kb *MockKnowledgeBase) {
				kb.EXPECT().
					Ingest(gomock.Any(), "Spring Fest is in January", "calendar").
					Return("calendar", nil)
			},
			wantStatus: http.StatusOK,
			wantID:     "calendar",
		},
		{
			name:        "invalid JSON",
			requestBody: "invalid json",
			setupMocks:  func(*MockKnowledgeBase) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty text",
			requestBody: IngestReq{Text: "", ID: "doc1"},
			setupMocks:  func(*MockKnowledgeBase) {},
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "ingestion fails",
			requestBody: IngestReq{Text: "test document", ID: "doc1"},
			setupMocks: func(kb *MockKnowledgeBase) {
				kb.EXPECT().
					Ingest(gomock.Any(), "test document", "doc1").
					Return("", errors.New("ingestion error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:        "ingestion without ID",
			requestBody: IngestReq{Text: "test document"},
			setupMocks: func(kb *MockKnowledgeBase) {
				kb.EXPECT().
					Ingest(gomock.Any(), "test document", "").
					Return("generated-id", nil)
			},
			wantStatus: http.StatusOK,
			wantID:     "generated-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockKB := NewMockKnowledgeBase(ctrl)
			tt.setupMocks(mockKB)

			handler := NewHandlers(mockKB, NewMockAnswerGenerator(ctrl))

			req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBuffer(encodeBody(t, tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.IngestHandler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("IngestHandler() status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var response IngestResp
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("IngestHandler() invalid JSON response: %v", err)
				}
				if response.Status != "success" {
					t.Errorf("IngestHandler() status = %q, want %q", response.Status, "success")
				}
				if response.ID != tt.wantID {
					t.Errorf("IngestHandler() id = %q, want %q", response.ID, tt.wantID)
				}
			}
		})
	}
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		message     string
		err         error
		wantDetail  string
		wantMessage string
	}{
		{
			name:        "error with cause",
			status:      http.StatusBadRequest,
			message:     "Invalid request",
			err:         errors.New("validation failed"),
			wantDetail:  "Invalid request: validation failed",
			wantMessage: "Bad Request",
		},
		{
			name:        "error without cause",
			status:      http.StatusInternalServerError,
			message:     "Server error",
			wantDetail:  "Server error",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			serviceError(w, tt.status, tt.message, tt.err)

			if w.Code != tt.status {
				t.Errorf("serviceError() status = %d, want %d", w.Code, tt.status)
			}

			var response types.ServiceError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("serviceError() invalid JSON: %v", err)
			}
			if response.Detail != tt.wantDetail {
				t.Errorf("serviceError() Detail = %q, want %q", response.Detail, tt.wantDetail)
			}
			if response.Message != tt.wantMessage {
				t.Errorf("serviceError() Message = %q, want %q", response.Message, tt.wantMessage)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	HealthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("HealthHandler() status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("HealthHandler() invalid JSON: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("HealthHandler() status = %q, want %q", response["status"], "ok")
	}
}

// The answer client must understand the error bodies this service writes.
func TestRouter_AnswerClientRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKB := NewMockKnowledgeBase(ctrl)
	mockGen := NewMockAnswerGenerator(ctrl)

	mockKB.EXPECT().Retrieve(gomock.Any(), "When is Spring Fest?").Return("ctx", nil)
	mockGen.EXPECT().GenerateAnswer(gomock.Any(), "ctx", "When is Spring Fest?").Return("January.", nil)
	mockKB.EXPECT().Retrieve(gomock.Any(), "broken").Return("", errors.New("qdrant down"))

	server := httptest.NewServer(NewRouter(NewHandlers(mockKB, mockGen)))
	defer server.Close()

	client := answer.NewClient(server.URL + "/query")
	defer client.Close()

	if got := client.Ask(context.Background(), "When is Spring Fest?"); got != (answer.Result{Answer: "January."}) {
		t.Errorf("Ask() = %+v, want answer", got)
	}

	got := client.Ask(context.Background(), "broken")
	if !strings.Contains(got.Error, "Failed to retrieve context: qdrant down") {
		t.Errorf("Ask() = %+v, want detail from service", got)
	}

	got = client.Ask(context.Background(), "")
	if got.Error != "Question is required" {
		t.Errorf("Ask() = %+v, want validation detail", got)
	}
}
