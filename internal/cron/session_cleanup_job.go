package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/migapan/storefront-backend/pkg/logger"
)

type sessionPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewSessionCleanupJob removes session rows past their expiry.
func NewSessionCleanupJob(logg *logger.Logger, repo sessionPurger) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	return &sessionCleanupJob{logg: logg, repo: repo, now: time.Now}, nil
}

type sessionCleanupJob struct {
	logg *logger.Logger
	repo sessionPurger
	now  func() time.Time
}

func (j *sessionCleanupJob) Name() string { return "session-cleanup" }

func (j *sessionCleanupJob) Run(ctx context.Context) (int64, error) {
	deleted, err := j.repo.DeleteExpired(ctx, j.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "expired sessions removed")
	return deleted, nil
}
