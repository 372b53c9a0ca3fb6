package utils

import (
	"lms/database"
	"lms/metrics"
	"lms/models"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// CheckoutExpiryJob marks checkout sessions that were never paid as expired
type CheckoutExpiryJob struct {
	Clock  clockwork.Clock
	MaxAge time.Duration
}

var _ cron.Job = (*CheckoutExpiryJob)(nil)

func NewCheckoutExpiryJob(clock clockwork.Clock, maxAge time.Duration) *CheckoutExpiryJob {
	return &CheckoutExpiryJob{Clock: clock, MaxAge: maxAge}
}

// Run satisfies cron.Job
func (j *CheckoutExpiryJob) Run() {
	if _, err := j.ExpireStale(); err != nil {
		log.Error().Err(err).Msg("[CHECKOUT-SCHEDULER] failed to expire checkout sessions")
	}
}

// ExpireStale updates PENDING sessions older than MaxAge and returns how many changed
func (j *CheckoutExpiryJob) ExpireStale() (int64, error) {
	cutoff := j.Clock.Now().Add(-j.MaxAge)

	result := database.Database.Db.Model(&models.CheckoutSession{}).
		Where("status = ? AND created_at < ?", models.CheckoutStatusPending, cutoff).
		Update("status", models.CheckoutStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		metrics.CheckoutSessionsExpired.Add(float64(result.RowsAffected))
		log.Info().Int64("count", result.RowsAffected).Msg("[CHECKOUT-SCHEDULER] expired stale checkout sessions")
	}
	return result.RowsAffected, nil
}

// InitializeSchedulers starts the background jobs and returns the running scheduler
func InitializeSchedulers(checkoutMaxAge time.Duration) *cron.Cron {
	log.Info().Msg("[CHECKOUT-SCHEDULER] Initializing schedulers...")

	c := cron.New()
	if _, err := c.AddJob("@hourly", NewCheckoutExpiryJob(clockwork.NewRealClock(), checkoutMaxAge)); err != nil {
		log.Error().Err(err).Msg("[CHECKOUT-SCHEDULER] failed to register checkout expiry job")
	}
	c.Start()

	log.Info().Msg("[CHECKOUT-SCHEDULER] Scheduler started - checkout expiry runs hourly")
	return c
}
