package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Chanakya-ux/KGPT-client/internal/chat"
	"github.com/fatih/color"
)

// ErrAnswerFailed is returned by Ask when the answer service reported an
// error. The error text has already been printed.
var ErrAnswerFailed = errors.New("answer service returned an error")

// Ask asks a single question and prints the answer to out and the error, if
// any, to errOut.
func Ask(ctx context.Context, asker chat.Asker, question string, maxLen int, out, errOut io.Writer) error {
	if err := chat.ValidateQuestion(question, maxLen); err != nil {
		return err
	}

	result := asker.Ask(ctx, strings.TrimSpace(question))
	if result.Failed() {
		if _, err := color.New(color.FgRed).Fprintf(errOut, "Error: %s\n", result.Error); err != nil {
			return fmt.Errorf("failed to write to stderr: %w", err)
		}
		return ErrAnswerFailed
	}

	if _, err := fmt.Fprintln(out, result.Answer); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}
