package answer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Ask(t *testing.T) {
	tests := []struct {
		name       string
		question   string
		status     int
		body       string
		wantResult Result
	}{
		{
			name:       "answer returned",
			question:   "When is Spring Fest?",
			status:     http.StatusOK,
			body:       `{"answer": "Spring Fest is in January."}`,
			wantResult: Result{Answer: "Spring Fest is in January."},
		},
		{
			name:       "missing answer field",
			question:   "When is Summer Break?",
			status:     http.StatusOK,
			body:       `{}`,
			wantResult: Result{Answer: NoAnswerText},
		},
		{
			name:       "empty answer field",
			question:   "q",
			status:     http.StatusOK,
			body:       `{"answer": ""}`,
			wantResult: Result{Answer: NoAnswerText},
		},
		{
			name:       "null answer field",
			question:   "q",
			status:     http.StatusOK,
			body:       `{"answer": null, "context": ["x"]}`,
			wantResult: Result{Answer: NoAnswerText},
		},
		{
			name:       "success body is not an object",
			question:   "q",
			status:     http.StatusOK,
			body:       `["a", "b"]`,
			wantResult: Result{Answer: NoAnswerText},
		},
		{
			name:       "detail field on failure",
			question:   "q",
			status:     http.StatusInternalServerError,
			body:       `{"detail": "boom"}`,
			wantResult: Result{Error: "boom"},
		},
		{
			name:       "detail takes precedence over message",
			question:   "q",
			status:     http.StatusBadRequest,
			body:       `{"detail": "bad question", "message": "Bad Request"}`,
			wantResult: Result{Error: "bad question"},
		},
		{
			name:       "message field when detail is empty",
			question:   "q",
			status:     http.StatusBadGateway,
			body:       `{"detail": "", "message": "upstream down"}`,
			wantResult: Result{Error: "upstream down"},
		},
		{
			name:       "structured detail kept as JSON",
			question:   "q",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [{"loc": ["body", "question"], "msg": "field required"}]}`,
			wantResult: Result{Error: `[{"loc":["body","question"],"msg":"field required"}]`},
		},
		{
			name:       "no known fields",
			question:   "q",
			status:     http.StatusServiceUnavailable,
			body:       `{"error": "nope"}`,
			wantResult: Result{Error: "API Error: 503 Service Unavailable"},
		},
		{
			name:       "unparseable error body",
			question:   "q",
			status:     http.StatusInternalServerError,
			body:       `<html>oops</html>`,
			wantResult: Result{Error: "API Error: 500 Internal Server Error"},
		},
		{
			name:       "empty error body",
			question:   "q",
			status:     http.StatusNotFound,
			body:       ``,
			wantResult: Result{Error: "API Error: 404 Not Found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var got map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, map[string]any{"question": tt.question}, got)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL, WithLogger(quietLogger()))
			defer client.Close()

			got := client.Ask(context.Background(), tt.question)

			assert.Equal(t, tt.wantResult, got)
			assert.Equal(t, int32(1), requests.Load())
		})
	}
}

func TestClient_Ask_MalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"answer": `)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLogger(quietLogger()))
	got := client.Ask(context.Background(), "q")

	assert.True(t, got.Failed())
	assert.Empty(t, got.Answer)
	assert.Contains(t, got.Error, "failed to decode answer")
}

func TestClient_Ask_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(endpoint, WithLogger(quietLogger()))
	got := client.Ask(context.Background(), "q")

	assert.True(t, got.Failed())
	assert.Empty(t, got.Answer)
	assert.NotEqual(t, UnknownErrorText, got.Error)
}

func TestClient_Ask_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"answer": "late"}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, WithLogger(quietLogger()))
	got := client.Ask(ctx, "q")

	assert.True(t, got.Failed())
	assert.Contains(t, got.Error, "context canceled")
}

func TestClient_Ask_NoDeduplication(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = io.WriteString(w, `{"answer": "same"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLogger(quietLogger()))
	first := client.Ask(context.Background(), "When is Spring Fest?")
	second := client.Ask(context.Background(), "When is Spring Fest?")

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), requests.Load())
}

func TestClient_Ask_CustomHTTPClient(t *testing.T) {
	var used atomic.Bool
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		used.Store(true)
		return nil, errors.New("dial refused by test transport")
	})

	client := NewClient("http://kgpt.invalid/query",
		WithHTTPClient(&http.Client{Transport: transport}),
		WithLogger(quietLogger()),
	)
	got := client.Ask(context.Background(), "q")

	assert.True(t, used.Load())
	assert.Contains(t, got.Error, "dial refused by test transport")
	assert.Equal(t, "http://kgpt.invalid/query", client.Endpoint())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestTransportErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: UnknownErrorText,
		},
		{
			name: "descriptive error",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
		{
			name: "blank error",
			err:  errors.New("  "),
			want: UnknownErrorText,
		},
		{
			name: "url error without cause",
			err:  &url.Error{Op: "Post", URL: "http://x", Err: errors.New("")},
			want: UnknownErrorText,
		},
		{
			name: "url error with cause",
			err:  &url.Error{Op: "Post", URL: "http://x", Err: errors.New("timeout")},
			want: `Post "http://x": timeout`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transportErrorMessage(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		status     string
		body       string
		want       string
	}{
		{
			name:       "detail",
			statusCode: 500,
			status:     "500 Internal Server Error",
			body:       `{"detail": "boom"}`,
			want:       "boom",
		},
		{
			name:       "message",
			statusCode: 500,
			status:     "500 Internal Server Error",
			body:       `{"message": "bang"}`,
			want:       "bang",
		},
		{
			name:       "custom status text",
			statusCode: 418,
			status:     "418 Short And Stout",
			body:       `nope`,
			want:       "API Error: 418 Short And Stout",
		},
		{
			name:       "missing status text",
			statusCode: 502,
			status:     "",
			body:       `null`,
			want:       "API Error: 502 Bad Gateway",
		},
		{
			name:       "false detail is ignored",
			statusCode: 400,
			status:     "400 Bad Request",
			body:       `{"detail": false}`,
			want:       "API Error: 400 Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.statusCode, tt.status, []byte(tt.body)))
		})
	}
}
