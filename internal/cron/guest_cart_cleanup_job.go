package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/migapan/storefront-backend/pkg/logger"
)

const defaultGuestCartTTL = 30 * 24 * time.Hour

type guestCartPurger interface {
	DeleteStaleGuestCarts(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewGuestCartCleanupJob drops anonymous carts untouched for longer than ttl.
func NewGuestCartCleanupJob(logg *logger.Logger, repo guestCartPurger, ttl time.Duration) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ttl <= 0 {
		ttl = defaultGuestCartTTL
	}
	return &guestCartCleanupJob{logg: logg, repo: repo, ttl: ttl, now: time.Now}, nil
}

type guestCartCleanupJob struct {
	logg *logger.Logger
	repo guestCartPurger
	ttl  time.Duration
	now  func() time.Time
}

func (j *guestCartCleanupJob) Name() string { return "guest-cart-cleanup" }

func (j *guestCartCleanupJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.ttl)
	deleted, err := j.repo.DeleteStaleGuestCarts(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale guest carts: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "stale guest carts removed")
	return deleted, nil
}
