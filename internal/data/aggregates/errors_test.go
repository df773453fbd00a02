package aggregates

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", fmt.Errorf("gallery row: %w", gorm.ErrRecordNotFound))
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_StoreUnavailable(t *testing.T) {
	cases := map[string]error{
		"sentinel":  ErrStoreUnavailable,
		"bad conn":  driver.ErrBadConn,
		"canceled":  context.Canceled,
		"pg 08006":  &pgconn.PgError{Code: "08006"},
		"refused":   errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
		"db closed": errors.New("sql: database is closed"),
	}
	for name, in := range cases {
		if got := domainagg.CodeOf(MapError("op", in)); got != domainagg.CodeStoreUnavailable {
			t.Fatalf("%s: want=%s got=%s", name, domainagg.CodeStoreUnavailable, got)
		}
	}
}

func TestMapError_PgCodes(t *testing.T) {
	if got := domainagg.CodeOf(MapError("op", &pgconn.PgError{Code: "23505"})); got != domainagg.CodeConflict {
		t.Fatalf("23505: want=conflict got=%s", got)
	}
	if got := domainagg.CodeOf(MapError("op", &pgconn.PgError{Code: "40P01"})); got != domainagg.CodeRetryable {
		t.Fatalf("40P01: want=retryable got=%s", got)
	}
}

func TestMapError_UnknownIsInternal(t *testing.T) {
	if got := domainagg.CodeOf(MapError("op", errors.New("boom"))); got != domainagg.CodeInternal {
		t.Fatalf("want=internal got=%s", got)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}
