package jobs

import (
	"context"
	"time"

	"nestio-backend/internal/logger"
)

const staleWithdrawalNote = "automatically withdrawn: application expired without a response"

// ExpireStaleApplications withdraws applications that sat PENDING longer
// than the configured TTL. Landlords who never respond should not pin an
// applicant's pending slot forever.
func (r *JobRunner) ExpireStaleApplications() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ttl := time.Duration(r.cfg.Applications.PendingTTLDays) * 24 * time.Hour
	cutoff := time.Now().Add(-ttl)

	n, err := r.appRepo.ExpireStale(ctx, cutoff, staleWithdrawalNote)
	if err != nil {
		logger.Error("ExpireStaleApplications job failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Expired stale applications", "count", n, "cutoff", cutoff)
	}
}
