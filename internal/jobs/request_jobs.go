package jobs

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
)

// EscalateStaleRequests re-broadcasts high and critical requests that have
// stayed active past the configured age. Donors who registered or became
// eligible after the original broadcast get a fresh chance to respond.
func (jr *JobRunner) EscalateStaleRequests() {
	jr.runWithRecovery("EscalateStaleRequests", func() {
		ctx := context.Background()

		cutoff := time.Now().UTC().Add(-time.Duration(jr.config.Scheduler.StaleRequestAgeHours) * time.Hour)
		urgencies := []domain.UrgencyLevel{domain.UrgencyHigh, domain.UrgencyCritical}

		stale, err := jr.store.ListStaleActive(ctx, urgencies, cutoff)
		if err != nil {
			logger.Error("Failed to list stale active requests", "error", err)
			return
		}
		if len(stale) == 0 {
			logger.Info("No stale active requests to escalate")
			return
		}

		escalated := 0
		for i := range stale {
			req := &stale[i]
			origin := req.Hospital.Location

			matches, err := jr.services.Search.FindDonors(ctx, req.BloodType, &origin, jr.config.Search.DefaultRadiusKm)
			if err != nil {
				logger.Error("Failed to find donors for stale request",
					"request_id", req.ID, "error", err)
				continue
			}
			if len(matches) == 0 {
				logger.Debug("No eligible donors near stale request", "request_id", req.ID)
				continue
			}

			jr.services.Dispatcher.RequestCreated(ctx, req, matches)
			escalated++
			logger.Debug("Re-broadcast stale request",
				"request_id", req.ID,
				"urgency", req.Urgency,
				"candidates", len(matches))
		}

		logger.Info("Escalated stale requests", "count", escalated, "examined", len(stale))
	})
}
