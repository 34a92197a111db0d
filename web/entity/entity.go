// Package entity defines the JSON shapes used by the web layer.
package entity

// Msg is the generic API response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj,omitempty"`
}

// Status is the response of the asynchronous completed-status endpoint.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CompletedUpdate is the request body of the completed-status endpoint.
// Completed carries the literal strings "Yes" or "No"; a missing key is
// a malformed request.
type CompletedUpdate struct {
	Completed *string `json:"completed"`
}
