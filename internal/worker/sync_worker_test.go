package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/model"
	"github.com/stretchr/testify/assert"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (r *countingReconciler) Reconcile(ctx context.Context) ([]model.Entry, error) {
	r.calls.Add(1)
	return nil, r.err
}

func TestSyncWorker_TicksUntilCancelled(t *testing.T) {
	rec := &countingReconciler{err: errors.New("store down")}
	w := NewSyncWorker(rec, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rec.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSyncWorker_DisabledReturnsImmediately(t *testing.T) {
	rec := &countingReconciler{}
	w := NewSyncWorker(rec, 0, zerolog.Nop())

	w.Start(context.Background())

	assert.Zero(t, rec.calls.Load())
}
