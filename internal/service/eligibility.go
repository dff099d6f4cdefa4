package service

import (
	"time"

	"bloodlink-backend/internal/domain"
)

// DonationCooldown is the minimum interval between completed donations.
const DonationCooldown = 56 * 24 * time.Hour

// IsEligible reports whether the user may currently donate: donor role,
// available, verified, and either no prior donation or one at least 56 days
// before now. Pure function of (user, now) — donor state changes between
// calls, so the result must never be cached beyond the request at hand.
func IsEligible(u *domain.User, now time.Time) bool {
	if u == nil || u.Role != domain.RoleDonor || u.Donor == nil {
		return false
	}
	if !u.Donor.IsAvailable || !u.Donor.IsVerified {
		return false
	}
	if u.Donor.LastDonationDate == nil {
		return true
	}
	return now.Sub(*u.Donor.LastDonationDate) >= DonationCooldown
}
