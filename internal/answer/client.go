// Package answer talks to the remote question-answering service.
package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Chanakya-ux/KGPT-client/internal/types"
	"resty.dev/v3"
)

// DefaultEndpoint is the hosted KGPT answer service.
const DefaultEndpoint = "https://kgpt-1.onrender.com/query"

// Client submits questions to a fixed answer endpoint. It keeps no state
// between calls and is safe for concurrent use.
type Client struct {
	httpClient *resty.Client
	endpoint   string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient creates a client for the given endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	o := clientOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetHeader("Content-Type", "application/json")
	rc.SetHeader("Accept", "application/json")

	return &Client{
		httpClient: rc,
		endpoint:   endpoint,
		logger:     o.logger,
	}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// Endpoint returns the URL questions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ask posts the question and converts every outcome into a Result. It never
// retries and never returns a Go error: failures are reported in
// Result.Error.
func (c *Client) Ask(ctx context.Context, question string) Result {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(types.QueryRequest{Question: question}).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("API call failed", "error", err, "endpoint", c.endpoint)
		return errorResult(transportErrorMessage(err))
	}

	body := []byte(response.String())
	if !response.IsSuccess() {
		msg := errorMessage(response.StatusCode(), response.Status(), body)
		c.logger.Error("Answer service rejected question",
			"status", response.StatusCode(),
			"error", msg,
		)
		return errorResult(msg)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil && !json.Valid(body) {
		c.logger.Error("Failed to decode answer", "error", err, "status", response.StatusCode())
		return errorResult(fmt.Sprintf("failed to decode answer: %v", err))
	}
	text := fieldText(decoded["answer"])
	if text == "" {
		return answerResult(NoAnswerText)
	}
	return answerResult(text)
}

// transportErrorMessage describes a failure that produced no response.
func transportErrorMessage(err error) string {
	if err == nil {
		return UnknownErrorText
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && (urlErr.Err == nil || strings.TrimSpace(urlErr.Err.Error()) == "") {
		return UnknownErrorText
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return UnknownErrorText
}
