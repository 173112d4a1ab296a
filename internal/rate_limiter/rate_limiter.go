package ratelimiter

import (
	"strings"
	"sync"
	"time"

	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/util"
	"go.uber.org/zap"
)

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger()
	}

	return NewFixedWindowLimiter(cfg, logger)
}

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter counts requests per key in windows of cfg.TimeFrame.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	cfg     config.RateLimiterConfig
	windows map[string]window
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		cfg:     cfg,
		windows: make(map[string]window),
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Enabled() bool {
	return rl != nil && rl.cfg.Enabled && rl.cfg.RequestsPerTimeFrame > 0 && rl.cfg.TimeFrame > 0
}

// Allow records one request for key. When the limit is hit it returns false and how long
// until the current window ends.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.Enabled() {
		return true, 0
	}

	key = strings.TrimSpace(key)
	if key == "" {
		key = "anonymous"
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.windows[key]
	if w.start.IsZero() || now.Sub(w.start) >= rl.cfg.TimeFrame {
		rl.windows[key] = window{start: now, count: 1}
		rl.sweep(now)
		return true, 0
	}

	if w.count >= rl.cfg.RequestsPerTimeFrame {
		retryAfter := rl.cfg.TimeFrame - now.Sub(w.start)
		rl.logger.Debugf("Rate limit exceeded for %s, retry after %s", key, retryAfter)
		return false, retryAfter
	}

	w.count++
	rl.windows[key] = w
	return true, 0
}

// sweep drops expired windows once the map grows, caller holds the lock.
func (rl *FixedWindowRateLimiter) sweep(now time.Time) {
	if len(rl.windows) < 10000 {
		return
	}
	for k, w := range rl.windows {
		if now.Sub(w.start) >= rl.cfg.TimeFrame {
			delete(rl.windows, k)
		}
	}
}
