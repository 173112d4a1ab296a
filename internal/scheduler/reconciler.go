// Package scheduler runs the periodic jobs of the render consumer.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Batch size of one reconcile run.
const RECONCILE_BATCH_SIZE = 100

type StaleRenderRequeuer interface {
	RequeueStaleRenders(ctx context.Context, gracePeriod time.Duration, limit int) (int, error)
}

// Reconciler republishes render jobs for certificates stuck in approved, e.g. after
// the render queue dropped a job or the broker was down while approving.
type Reconciler struct {
	cron        *cron.Cron
	requeuer    StaleRenderRequeuer
	gracePeriod time.Duration
	logger      *zap.SugaredLogger
}

func NewReconciler(spec string, requeuer StaleRenderRequeuer, gracePeriod time.Duration, logger *zap.SugaredLogger) (*Reconciler, error) {
	r := &Reconciler{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		requeuer:    requeuer,
		gracePeriod: gracePeriod,
		logger:      logger,
	}

	if _, err := r.cron.AddFunc(spec, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			r.logger.Errorw("reconcile run failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reconcile spec %q: %w", spec, err)
	}

	return r, nil
}

func (r *Reconciler) Start() {
	r.logger.Infow("reconciler started", "grace_period", r.gracePeriod.String())
	r.cron.Start()
}

// Stop waits for a running reconcile to finish or ctx to end.
func (r *Reconciler) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	n, err := r.requeuer.RequeueStaleRenders(ctx, r.gracePeriod, RECONCILE_BATCH_SIZE)
	if err != nil {
		return n, err
	}
	if n > 0 {
		r.logger.Infow("requeued stale renders", "count", n)
	}
	return n, nil
}
