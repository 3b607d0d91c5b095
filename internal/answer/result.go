package answer

const (
	// NoAnswerText is returned as the answer when the service succeeds but
	// sends no answer content.
	NoAnswerText = "No answer returned from the LLM."

	// UnknownErrorText is used when a transport failure has no description.
	UnknownErrorText = "An unknown error occurred while contacting the LLM."
)

// Result is the outcome of a single question. Exactly one of Answer and
// Error is set.
type Result struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

func answerResult(text string) Result {
	return Result{Answer: text}
}

func errorResult(message string) Result {
	return Result{Error: message}
}
