package apierr

import (
	"errors"
	"fmt"
)

// Error is an error that already knows its HTTP status and public code.
// FailedID names the offending input element when there is one.
type Error struct {
	Status   int
	Code     string
	FailedID string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	case e.Status != 0:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithFailedID returns a copy of e that carries id.
func (e *Error) WithFailedID(id string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.FailedID = id
	return &cp
}

// CodeOf returns the code of the first *Error in err's chain, or fallback.
func CodeOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return fallback
}

// StatusOf returns the status of the first *Error in err's chain, or fallback.
func StatusOf(err error, fallback int) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return fallback
}
