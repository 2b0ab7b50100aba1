package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingID is the cause of a SubmitError when the backend answered a create
// with 2xx but no id. The record was probably written, so a blind resubmit can
// duplicate it.
var ErrMissingID = errors.New("backend response has no id; the request may already exist, check the list before resubmitting")

// FetchError reports a failed list call: transport failure, non-2xx status or
// an undecodable body.
type FetchError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	return "failed to fetch requests: " + e.Message
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError reports a failed create call. The draft that was sent is still
// valid and may be resubmitted.
type SubmitError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *SubmitError) Error() string {
	return "failed to submit request: " + e.Message
}

func (e *SubmitError) Unwrap() error { return e.Err }

// statusError is the cause attached to FetchError/SubmitError for non-2xx responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("backend status %d %s", e.code, http.StatusText(e.code))
	}
	return fmt.Sprintf("backend status %d: %s", e.code, e.body)
}
