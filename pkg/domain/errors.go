package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice on a session.
	ErrAlreadyStarted = errors.New("interview already started")

	// ErrNotStarted is returned when an operation needs a started session.
	ErrNotStarted = errors.New("interview not started")

	// ErrTerminal is returned for any operation after the session ended.
	ErrTerminal = errors.New("interview is terminal")

	// ErrNotAwaitingAnswer is returned when an answer arrives while no question is presented.
	ErrNotAwaitingAnswer = errors.New("no question is awaiting an answer")

	// ErrQuestionMismatch is returned when an answer targets a question other than the active one.
	ErrQuestionMismatch = errors.New("answer does not match the active question")

	ErrInvalidAnswer    = errors.New("invalid answer")
	ErrInvalidQuestion  = errors.New("invalid question")
	ErrUnknownInputType = errors.New("unknown input type")

	// ErrMalformedResponse is returned when a response misses the fields of its declared outcome.
	ErrMalformedResponse = errors.New("malformed decision response")

	// ErrTransport marks every failure of the decision-service round trip.
	ErrTransport = errors.New("decision service unavailable")

	// ErrNothingToRetry is returned by Retry when the last round trip did not fail.
	ErrNothingToRetry = errors.New("nothing to retry")

	// ErrResultNotFound is returned when a result record does not exist or expired.
	ErrResultNotFound = errors.New("result not found")
)

// TransportError describes a failed round trip to the decision service.
type TransportError struct {
	StatusCode int // zero when no HTTP response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("decision service: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("decision service: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
