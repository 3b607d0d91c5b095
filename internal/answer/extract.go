package answer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// messageExtractor pulls a human-readable message out of a decoded error body.
type messageExtractor func(body map[string]json.RawMessage) (string, bool)

// errorMessageExtractors are tried in order; the first hit wins.
var errorMessageExtractors = []messageExtractor{
	fieldExtractor("detail"),
	fieldExtractor("message"),
}

func fieldExtractor(name string) messageExtractor {
	return func(body map[string]json.RawMessage) (string, bool) {
		raw, ok := body[name]
		if !ok {
			return "", false
		}
		text := fieldText(raw)
		return text, text != ""
	}
}

// errorMessage builds the message for a non-success response.
func errorMessage(statusCode int, status string, body []byte) string {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err == nil {
		for _, extract := range errorMessageExtractors {
			if msg, ok := extract(decoded); ok {
				return msg
			}
		}
	}
	return fmt.Sprintf("API Error: %d %s", statusCode, statusText(statusCode, status))
}

// statusText strips the numeric code from a status line such as
// "500 Internal Server Error".
func statusText(statusCode int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(statusCode)))
	if text == "" {
		return http.StatusText(statusCode)
	}
	return text
}

// fieldText renders a JSON value as message text. Strings are unquoted;
// null, false, 0 and "" count as absent. Other values keep their compact
// JSON form, e.g. a list of validation errors.
func fieldText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", "0", `""`:
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}
