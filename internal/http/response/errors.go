package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
	"github.com/yungbote/rsvp-backend/internal/platform/apierr"
)

// StatusFor maps aggregate error codes onto HTTP statuses.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict, domainagg.CodeTransactionFailed, domainagg.CodeRetryable:
		return http.StatusConflict
	case domainagg.CodeStoreUnavailable, domainagg.CodeAggregationFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the envelope for err. Transaction failures get a message
// telling the client that nothing was written.
func ErrorBody(err error, fallbackCode string) (int, ErrorEnvelope) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		msg := ae.Code
		if ae.Err != nil {
			msg = ae.Err.Error()
		}
		return ae.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code, FailedID: ae.FailedID}}
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		return http.StatusInternalServerError, ErrorEnvelope{Error: APIError{Message: msg, Code: fallbackCode}}
	}
	msg := err.Error()
	if code == domainagg.CodeTransactionFailed {
		msg = "nothing changed, try again"
	}
	return StatusFor(code), ErrorEnvelope{Error: APIError{
		Message:  msg,
		Code:     string(code),
		FailedID: domainagg.FailedIDOf(err),
	}}
}

// RespondDomainError writes err using the aggregate and apierr mappings.
func RespondDomainError(c *gin.Context, err error, fallbackCode string) {
	status, body := ErrorBody(err, fallbackCode)
	c.JSON(status, body)
}
