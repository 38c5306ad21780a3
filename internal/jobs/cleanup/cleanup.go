package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job prunes meetings whose scheduled time has passed the retention window.
type Job struct {
	meetings  meetingPruner
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

type meetingPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

func New(meetings meetingPruner, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		meetings:  meetings,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.meetings == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	rows, err := j.meetings.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup stale meetings: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup stale meetings completed", zap.Int64("deleted", rows))
	}

	return nil
}

// Start runs the job on a fixed interval until ctx is cancelled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := j.Run(ctx); err != nil {
					j.logger.Warn("cleanup run failed", zap.Error(err))
				}
			}
		}
	}()
}
