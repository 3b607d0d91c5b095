package llm

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed prompts/system_prompt.txt
var defaultSystemPrompt string

//go:embed prompts/answer_prompt.txt
var defaultAnswerPrompt string

const (
	systemPromptFile = "system_prompt.txt"
	answerPromptFile = "answer_prompt.txt"
)

// Prompts holds the system prompt and the answer template. The template
// uses {context} and {question} placeholders.
type Prompts struct {
	System string
	Answer string
}

// DefaultPrompts returns the built-in prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		System: strings.TrimSpace(defaultSystemPrompt),
		Answer: strings.TrimSpace(defaultAnswerPrompt),
	}
}

// LoadPrompts reads prompt overrides from dir. Files that do not exist keep
// the built-in prompt; an empty dir returns the defaults.
func LoadPrompts(dir string) (Prompts, error) {
	p := DefaultPrompts()
	if dir == "" {
		return p, nil
	}

	for name, dst := range map[string]*string{
		systemPromptFile: &p.System,
		answerPromptFile: &p.Answer,
	} {
		text, err := loadPrompt(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Prompts{}, fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
		if text != "" {
			*dst = text
		}
	}
	return p, nil
}

// Render fills the answer template.
func (p Prompts) Render(contextText, question string) string {
	return strings.NewReplacer("{context}", contextText, "{question}", question).Replace(p.Answer)
}

// loadPrompt loads a prompt from a file
func loadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
