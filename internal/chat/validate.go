package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMaxQuestionLength is the longest question, in characters, a session
// accepts.
const DefaultMaxQuestionLength = 2000

var ErrInvalidQuestion = errors.New("invalid question")

var validate = validator.New()

// ValidateQuestion checks that the trimmed question is non-empty and at most
// maxLen characters long. The returned error wraps ErrInvalidQuestion.
func ValidateQuestion(question string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxQuestionLength
	}
	err := validate.Var(strings.TrimSpace(question), fmt.Sprintf("required,max=%d", maxLen))
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	switch fieldErrs[0].Tag() {
	case "required":
		return fmt.Errorf("%w: Question cannot be empty.", ErrInvalidQuestion)
	case "max":
		return fmt.Errorf("%w: Question is too long.", ErrInvalidQuestion)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidQuestion, fieldErrs[0].Error())
	}
}
