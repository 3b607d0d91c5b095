// Package chat keeps the transient state of one conversation with KGPT.
package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Chanakya-ux/KGPT-client/internal/answer"
	"github.com/google/uuid"
)

//go:generate mockgen -source=session.go -destination=mock_asker.go -package=chat Asker

// Asker sends a question to the answer service.
type Asker interface {
	Ask(ctx context.Context, question string) answer.Result
}

// Greeting opens every conversation.
const Greeting = "Hello! I'm KGPT. How can I assist you today?"

var defaultSuggestions = []string{
	"When is Spring Fest?",
	"When is Summer Break?",
	"When are Summer Quarter classes?",
}

// DefaultSuggestions returns the opening questions offered to a new session.
func DefaultSuggestions() []string {
	return slices.Clone(defaultSuggestions)
}

// ErrBusy is returned when a question is sent while another one is pending.
var ErrBusy = errors.New("a question is already being answered")

// AskError carries the error text of a failed answer.
type AskError struct {
	Message string
}

func (e *AskError) Error() string {
	return e.Message
}

// Session is a single conversation. It is safe for concurrent use, but only
// one question may be pending at a time.
type Session struct {
	mu          sync.Mutex
	id          string
	asker       Asker
	messages    []Message
	loading     bool
	sent        bool
	maxLen      int
	suggestions []string
	now         func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithMaxQuestionLength overrides DefaultMaxQuestionLength.
func WithMaxQuestionLength(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxLen = n
		}
	}
}

// WithSuggestions replaces the suggested opening questions.
func WithSuggestions(questions []string) SessionOption {
	return func(s *Session) {
		s.suggestions = slices.Clone(questions)
	}
}

// NewSession starts a conversation seeded with the greeting.
func NewSession(asker Asker, opts ...SessionOption) *Session {
	s := &Session{
		id:          uuid.NewString(),
		asker:       asker,
		maxLen:      DefaultMaxQuestionLength,
		suggestions: slices.Clone(defaultSuggestions),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []Message{NewMessage(SenderLLM, Greeting, s.now())}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Loading reports whether a question is waiting for its answer.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Days returns the transcript grouped by calendar day.
func (s *Session) Days() []Day {
	return GroupByDay(s.Messages())
}

// ValidateQuestion applies the session's question rules without sending.
func (s *Session) ValidateQuestion(question string) error {
	return ValidateQuestion(question, s.maxLen)
}

// SuggestedQuestions lists opening questions. They are offered only until
// the first question is sent.
func (s *Session) SuggestedQuestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent || len(s.messages) != 1 || s.messages[0].Sender != SenderLLM {
		return nil
	}
	return slices.Clone(s.suggestions)
}

// Send records the question, asks it and records the answer. A failed
// answer leaves only the question in the transcript and is returned as
// *AskError. An empty answer is recorded as answer.NoAnswerText.
func (s *Session) Send(ctx context.Context, question string) (Message, error) {
	question = strings.TrimSpace(question)
	if err := ValidateQuestion(question, s.maxLen); err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.loading = true
	s.sent = true
	s.messages = append(s.messages, NewMessage(SenderUser, question, s.now()))
	s.mu.Unlock()

	result := s.asker.Ask(ctx, question)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if result.Failed() {
		return Message{}, &AskError{Message: result.Error}
	}
	text := result.Answer
	if text == "" {
		text = answer.NoAnswerText
	}
	reply := NewMessage(SenderLLM, text, s.now())
	s.messages = append(s.messages, reply)
	return reply, nil
}
