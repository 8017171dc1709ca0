package econnect

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
)

// ErrorKind classifies a failed call. It is not part of the JSON envelope.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindTransport  ErrorKind = "transport"
	KindRemote     ErrorKind = "remote"
	KindValidation ErrorKind = "validation"
	KindTimeout    ErrorKind = "timeout"
)

// Envelope is the uniform outcome of every gateway call. Error is 0 on
// success and 1 on failure; Result holds the unwrapped response or, on
// failure, the fault message.
type Envelope struct {
	Error  int `json:"error"`
	Result any `json:"result"`

	kind ErrorKind
}

func (e Envelope) Failed() bool    { return e.Error != 0 }
func (e Envelope) Kind() ErrorKind { return e.kind }

// Message returns the failure text, or "" for successful envelopes.
func (e Envelope) Message() string {
	if !e.Failed() {
		return ""
	}
	s, _ := e.Result.(string)
	return s
}

// String returns the result as a string when the operation unwraps to a
// scalar (job ids, order numbers, counts).
func (e Envelope) String() (string, bool) {
	if e.Failed() {
		return "", false
	}
	s, ok := e.Result.(string)
	return s, ok
}

// Object returns the result when the operation returns the whole response.
func (e Envelope) Object() (soap.Object, bool) {
	if e.Failed() {
		return nil, false
	}
	o, ok := e.Result.(soap.Object)
	return o, ok
}

// ValidationError is raised before any remote call is made.
type ValidationError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s: field %s: %s", e.Operation, e.Field, e.Reason)
}

func success(result any) Envelope {
	return Envelope{Error: 0, Result: result}
}

func failure(err error) Envelope {
	return Envelope{Error: 1, Result: err.Error(), kind: classify(err)}
}

func classify(err error) ErrorKind {
	var (
		ve *ValidationError
		fe *soap.Fault
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &fe):
		return KindRemote
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	default:
		return KindTransport
	}
}
