package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderLLM    Sender = "llm"
	SenderSystem Sender = "system"
)

// Message is one entry of a conversation transcript.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a random ID.
func NewMessage(sender Sender, text string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: at,
	}
}

// Day is a run of messages sent on the same calendar day.
type Day struct {
	Label    string    `json:"label"`
	Messages []Message `json:"messages"`
}

const dayLabelLayout = "January 2, 2006"

// DayLabel formats the day separator label for t, e.g. "March 14, 2026".
func DayLabel(t time.Time) string {
	return t.Format(dayLabelLayout)
}

// GroupByDay splits messages into consecutive runs by calendar day, in the
// location of each message's timestamp.
func GroupByDay(messages []Message) []Day {
	var days []Day
	lastKey := ""
	for _, msg := range messages {
		key := msg.Timestamp.Format(time.DateOnly)
		if len(days) == 0 || key != lastKey {
			days = append(days, Day{Label: DayLabel(msg.Timestamp)})
			lastKey = key
		}
		days[len(days)-1].Messages = append(days[len(days)-1].Messages, msg)
	}
	return days
}
