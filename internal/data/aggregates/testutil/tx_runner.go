package testutil

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/data/aggregates"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
)

// errInjectedRollback unwinds a real gorm transaction so its writes are
// discarded before the injected commit error is reported.
var errInjectedRollback = errors.New("injected rollback")

// InjectedTxRunner fails a write transaction at a chosen point. With DB set
// the body runs inside a real transaction that is rolled back on any
// injected failure; without it the body runs against no transaction.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin  error
	FailCommit error

	mu            sync.Mutex
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}

	var err error
	if r.DB != nil {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if bodyErr := fn(dbctx.Context{Ctx: ctx, Tx: tx}); bodyErr != nil {
				return bodyErr
			}
			if failCommit != nil {
				return errInjectedRollback
			}
			return nil
		})
		if errors.Is(err, errInjectedRollback) {
			err = failCommit
		}
	} else {
		err = fn(dbctx.Context{Ctx: ctx})
		if err == nil && failCommit != nil {
			err = failCommit
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}

func (r *InjectedTxRunner) Counts() (begin, commit, rollback int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.BeginCalls, r.CommitCalls, r.RollbackCalls
}
