package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRequeuer struct {
	calls int
	grace time.Duration
	limit int
	n     int
	err   error
}

func (f *fakeRequeuer) RequeueStaleRenders(ctx context.Context, gracePeriod time.Duration, limit int) (int, error) {
	f.calls++
	f.grace, f.limit = gracePeriod, limit
	return f.n, f.err
}

func TestReconciler_RunOnce(t *testing.T) {
	requeuer := &fakeRequeuer{n: 3}
	r, err := NewReconciler("*/15 * * * *", requeuer, 10*time.Minute, zap.NewNop().Sugar())
	require.NoError(t, err)

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 10*time.Minute, requeuer.grace)
	assert.Equal(t, RECONCILE_BATCH_SIZE, requeuer.limit)

	requeuer.err = errors.New("db down")
	_, err = r.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, requeuer.calls)
}

func TestReconciler_InvalidSpec(t *testing.T) {
	_, err := NewReconciler("every now and then", &fakeRequeuer{}, time.Minute, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestReconciler_StartStop(t *testing.T) {
	r, err := NewReconciler("@every 1h", &fakeRequeuer{}, time.Minute, zap.NewNop().Sugar())
	require.NoError(t, err)

	r.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Stop(ctx)
}
