// Package cli renders KGPT conversations in a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Chanakya-ux/KGPT-client/internal/chat"
	"github.com/fatih/color"
)

var quitCommands = map[string]bool{
	"/quit": true,
	"/exit": true,
}

// ChatCLI runs an interactive conversation over a chat.Session.
type ChatCLI struct {
	session      *chat.Session
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	printed      int
	lastDay      string

	bold  *color.Color
	faint *color.Color
	cyan  *color.Color
	red   *color.Color
}

func NewChatCLI(session *chat.Session, in io.Reader, out io.Writer) *ChatCLI {
	return &ChatCLI{
		session:      session,
		stdinReader:  bufio.NewReader(in),
		stdoutWriter: out,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		cyan:         color.New(color.FgCyan),
		red:          color.New(color.FgRed),
	}
}

// inputLine is one line read from stdin, with the read error if any.
type inputLine struct {
	text string
	err  error
}

// Run prints the transcript and answers questions read line by line until
// the input ends, a quit command is read or ctx is done.
func (c *ChatCLI) Run(ctx context.Context) error {
	if err := c.printNewMessages(); err != nil {
		return err
	}
	suggestions := c.session.SuggestedQuestions()
	if err := c.printSuggestions(suggestions); err != nil {
		return err
	}

	lines := make(chan inputLine)
	done := make(chan struct{})
	defer close(done)
	go c.readLines(lines, done)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if _, err := c.bold.Fprint(c.stdoutWriter, "> "); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}

		var line inputLine
		select {
		case <-ctx.Done():
			if _, err := fmt.Fprintln(c.stdoutWriter); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
			return nil
		case line = <-lines:
		}
		if line.err != nil && !errors.Is(line.err, io.EOF) {
			return fmt.Errorf("failed to read from stdin: %w", line.err)
		}
		atEOF := errors.Is(line.err, io.EOF)

		input := strings.TrimSpace(line.text)
		switch {
		case quitCommands[input]:
			return nil
		case input == "":
			if atEOF {
				return nil
			}
			continue
		}

		if err := c.send(ctx, pickSuggestion(input, suggestions)); err != nil {
			return err
		}
		suggestions = c.session.SuggestedQuestions()
		if atEOF {
			return nil
		}
	}
}

// readLines feeds stdin lines to lines until a read fails or done is closed.
// A read blocked on stdin outlives Run; it ends with the process.
func (c *ChatCLI) readLines(lines chan<- inputLine, done <-chan struct{}) {
	for {
		text, err := c.stdinReader.ReadString('\n')
		select {
		case lines <- inputLine{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (c *ChatCLI) send(ctx context.Context, question string) error {
	if err := c.session.ValidateQuestion(question); err != nil {
		return c.printError(strings.TrimPrefix(err.Error(), chat.ErrInvalidQuestion.Error()+": "))
	}
	if _, err := c.faint.Fprintln(c.stdoutWriter, "KGPT is thinking..."); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	_, err := c.session.Send(ctx, question)
	var askErr *chat.AskError
	switch {
	case errors.As(err, &askErr):
		if err := c.printNewMessages(); err != nil {
			return err
		}
		return c.printError(askErr.Message)
	case err != nil:
		return c.printError(err.Error())
	}
	return c.printNewMessages()
}

// printNewMessages prints messages added since the last call. User messages
// are already on screen as typed, so only their day separator is printed.
func (c *ChatCLI) printNewMessages() error {
	messages := c.session.Messages()
	for _, msg := range messages[c.printed:] {
		day := chat.DayLabel(msg.Timestamp)
		if day != c.lastDay {
			if _, err := c.faint.Fprintf(c.stdoutWriter, "----- %s -----\n", day); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
			c.lastDay = day
		}
		switch msg.Sender {
		case chat.SenderUser:
			continue
		case chat.SenderSystem:
			if _, err := c.faint.Fprintln(c.stdoutWriter, msg.Text); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
			continue
		}
		if _, err := c.cyan.Fprint(c.stdoutWriter, "KGPT: "); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		if _, err := fmt.Fprintln(c.stdoutWriter, msg.Text); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	c.printed = len(messages)
	return nil
}

func (c *ChatCLI) printSuggestions(suggestions []string) error {
	if len(suggestions) == 0 {
		return nil
	}
	if _, err := c.faint.Fprintln(c.stdoutWriter, "Try asking (type a number to pick one):"); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	for i, s := range suggestions {
		if _, err := fmt.Fprintf(c.stdoutWriter, "  %d) %s\n", i+1, s); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	return nil
}

func (c *ChatCLI) printError(msg string) error {
	if _, err := c.red.Fprintf(c.stdoutWriter, "Error: %s\n", msg); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

// pickSuggestion maps "1".."n" to the offered suggestions.
func pickSuggestion(input string, suggestions []string) string {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(suggestions) {
		return input
	}
	return suggestions[n-1]
}
