package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an HTTP status and a stable machine-readable code.
// When Internal is set the wrapped text is for logs only.
type Error struct {
	Status   int
	Code     string
	Err      error
	Internal bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// PublicMessage is the text safe to return to API callers.
func (e *Error) PublicMessage() string {
	if e == nil || e.Internal {
		return "internal error"
	}
	return e.Error()
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func BadGateway(code string, err error) *Error {
	return New(http.StatusBadGateway, code, err)
}

// From returns the *Error wrapped in err, or an internal 500 with
// fallbackCode when err carries none.
func From(err error, fallbackCode string) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return &Error{Status: http.StatusInternalServerError, Code: fallbackCode, Err: err, Internal: true}
}
