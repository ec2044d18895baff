package source

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorClass splits source failures into the two classes the retry loop
// cares about. Transient failures are retried with backoff; terminal
// failures abort immediately because every later call in the same run
// will fail identically.
type ErrorClass int

const (
	ClassTransient ErrorClass = iota // network, timeout, rate limit
	ClassTerminal                    // invalid credentials, quota exhausted
)

// Error is a classified source failure
type Error struct {
	Op    string // "registry lookup", "grounded search"
	Class ErrorClass
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransient wraps a retryable failure
func NewTransient(op string, err error) *Error {
	return &Error{Op: op, Class: ClassTransient, Err: err}
}

// NewTerminal wraps a failure that must not be retried
func NewTerminal(op string, err error) *Error {
	return &Error{Op: op, Class: ClassTerminal, Err: err}
}

// IsTerminal reports whether err carries the terminal class
func IsTerminal(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Class == ClassTerminal
}

// ClassifyStatus maps an HTTP status code to an error class.
// Auth failures and payment/quota problems are terminal; everything else
// that reaches here is treated as transient.
func ClassifyStatus(status int) ErrorClass {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired:
		return ClassTerminal
	default:
		return ClassTransient
	}
}

// classifyMessage inspects an error string for known terminal markers.
// Quota exhaustion often arrives as a 429 with a quota message, which must
// not be confused with an ordinary rate limit.
func classifyMessage(msg string) ErrorClass {
	s := strings.ToLower(msg)
	switch {
	case strings.Contains(s, "invalid api key"),
		strings.Contains(s, "incorrect api key"),
		strings.Contains(s, "authentication"),
		strings.Contains(s, "insufficient_quota"),
		strings.Contains(s, "quota exceeded"),
		strings.Contains(s, "billing"):
		return ClassTerminal
	default:
		return ClassTransient
	}
}
