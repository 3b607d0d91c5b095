package types

// QueryRequest is the body accepted by the answer service's /query endpoint.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the success body of /query.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ServiceError is the error body of the answer service. Detail carries the
// human-readable reason, Message the HTTP status text.
type ServiceError struct {
	Detail  string `json:"detail"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response of the chat gateway
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
