package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics for statistics and reorder operations.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "validation"
	CodeNotFound          ErrorCode = "not_found"
	CodeConflict          ErrorCode = "conflict"
	CodeStoreUnavailable  ErrorCode = "store_unavailable"
	CodeAggregationFailed ErrorCode = "aggregation_failed"
	CodeTransactionFailed ErrorCode = "transaction_failed"
	CodeRetryable         ErrorCode = "retryable"
	CodeInternal          ErrorCode = "internal"
)

// Error is the canonical aggregate error wrapper.
// FailedID names the offending item when a batch is rejected because of one member.
type Error struct {
	Code     ErrorCode
	Op       string
	Message  string
	FailedID string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	if e.FailedID != "" {
		msg = strings.TrimSpace(msg + " [id=" + e.FailedID + "]")
	}
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// NotFound reports a batch member that does not exist in the target collection.
func NotFound(op, failedID, message string) error {
	return &Error{
		Code:     CodeNotFound,
		Op:       strings.TrimSpace(op),
		Message:  strings.TrimSpace(message),
		FailedID: strings.TrimSpace(failedID),
	}
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// FailedIDOf extracts the offending item id when available.
func FailedIDOf(err error) string {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.FailedID
}
