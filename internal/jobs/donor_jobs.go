package jobs

import (
	"context"
	"time"

	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/service"
)

// cooldownNotifyWindow bounds how far past the cooldown a donor's last
// donation may be before the daily job stops re-notifying them.
const cooldownNotifyWindow = 24 * time.Hour

// NotifyCooldownComplete tells donors whose donation cooldown has lapsed that
// they can donate again. The window keeps each donor to a single nudge.
func (jr *JobRunner) NotifyCooldownComplete() {
	jr.runWithRecovery("NotifyCooldownComplete", func() {
		ctx := context.Background()

		donors, err := jr.store.ListCooldownLapsed(ctx, service.DonationCooldown, cooldownNotifyWindow)
		if err != nil {
			logger.Error("Failed to list cooldown-lapsed donors", "error", err)
			return
		}
		if len(donors) == 0 {
			logger.Info("No donors completed their cooldown today")
			return
		}

		for i := range donors {
			jr.services.Dispatcher.DonorEligibleAgain(ctx, &donors[i])
			logger.Debug("Notified donor of completed cooldown", "donor_id", donors[i].ID)
		}

		logger.Info("Notified cooldown-complete donors", "count", len(donors))
	})
}
