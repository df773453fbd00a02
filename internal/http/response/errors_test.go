package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
	"github.com/yungbote/rsvp-backend/internal/platform/apierr"
)

func TestErrorBodyMapsAggregateCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domainagg.NewError(domainagg.CodeValidation, "op", "bad", nil), http.StatusBadRequest, "validation"},
		{"not found", domainagg.NotFound("op", "abc", "missing"), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "dup", nil), http.StatusConflict, "conflict"},
		{"store", domainagg.NewError(domainagg.CodeStoreUnavailable, "op", "down", nil), http.StatusServiceUnavailable, "store_unavailable"},
		{"aggregation", domainagg.NewError(domainagg.CodeAggregationFailed, "op", "boom", nil), http.StatusServiceUnavailable, "aggregation_failed"},
		{"transaction", domainagg.NewError(domainagg.CodeTransactionFailed, "op", "rolled back", nil), http.StatusConflict, "transaction_failed"},
		{"internal", domainagg.NewError(domainagg.CodeInternal, "op", "?", nil), http.StatusInternalServerError, "internal"},
		{"plain", errors.New("plain"), http.StatusInternalServerError, "fallback"},
		{"apierr", apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no")), http.StatusUnauthorized, "unauthorized"},
	}
	for _, tc := range cases {
		status, body := ErrorBody(tc.err, "fallback")
		if status != tc.status || body.Error.Code != tc.code {
			t.Fatalf("%s: want=%d/%s got=%d/%s", tc.name, tc.status, tc.code, status, body.Error.Code)
		}
	}
}

func TestErrorBodyDetails(t *testing.T) {
	_, body := ErrorBody(domainagg.NotFound("op", "item-7", "missing"), "")
	if body.Error.FailedID != "item-7" {
		t.Fatalf("failed id: want=item-7 got=%q", body.Error.FailedID)
	}
	_, body = ErrorBody(domainagg.NewError(domainagg.CodeTransactionFailed, "op", "driver detail", nil), "")
	if body.Error.Message != "nothing changed, try again" {
		t.Fatalf("transaction message: got=%q", body.Error.Message)
	}
	status, body := ErrorBody(apierr.New(http.StatusBadRequest, "invalid_id", nil).WithFailedID("zz"), "")
	if status != http.StatusBadRequest || body.Error.FailedID != "zz" {
		t.Fatalf("apierr failed id: status=%d body=%+v", status, body.Error)
	}
}

func TestRespondDomainErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondDomainError(c, domainagg.NotFound("op", "x", "missing"), "fallback")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "not_found" || env.Error.FailedID != "x" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
