package scheduler

import (
	"context"
	"time"

	"brokerage_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultContactHistoryCleanupInterval = 24 * time.Hour
	defaultContactHistoryRetention       = 2 * 365 * 24 * time.Hour
)

// ContactHistoryCleanup periodically removes contact records for closed
// leads once they pass the retention window. The leads repository itself
// stays append-only; this sweep is the single delete path.
type ContactHistoryCleanup struct {
	pool      *pgxpool.Pool
	log       *logger.Logger
	interval  time.Duration
	retention time.Duration
}

func NewContactHistoryCleanup(pool *pgxpool.Pool, log *logger.Logger, interval, retention time.Duration) *ContactHistoryCleanup {
	if interval <= 0 {
		interval = defaultContactHistoryCleanupInterval
	}
	if retention <= 0 {
		retention = defaultContactHistoryRetention
	}

	return &ContactHistoryCleanup{
		pool:      pool,
		log:       log,
		interval:  interval,
		retention: retention,
	}
}

func (c *ContactHistoryCleanup) Run(ctx context.Context) {
	if c == nil || c.pool == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ContactHistoryCleanup) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-c.retention)

	tag, err := c.pool.Exec(ctx, `
		DELETE FROM contact_history
		WHERE created_at < $1
		  AND lead_id IN (
			SELECT id FROM leads WHERE status IN ('converted', 'declined')
		  )`, cutoff)
	if err != nil {
		c.log.Warn("contact history cleanup failed", "error", err)
		return
	}

	if tag.RowsAffected() > 0 {
		c.log.Info("contact history cleanup removed old records", "deleted", tag.RowsAffected())
	}
}
