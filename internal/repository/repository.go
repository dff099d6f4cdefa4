package repository

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	// FindDonorsNear returns donor users within radiusKm of origin whose
	// blood type is in bloodTypes (all types when empty), with the raw
	// great-circle distance. Cooldown is not evaluated here; eligibility is
	// recomputed by the caller at evaluation time.
	FindDonorsNear(ctx context.Context, origin domain.Coordinate, radiusKm float64, bloodTypes []domain.BloodType) ([]domain.DonorDistance, error)
	UpdateDonorAvailability(ctx context.Context, id int32, isAvailable bool, lastDonationDate *time.Time) error
	// ListCooldownLapsed returns unavailable donors whose last donation is at
	// least cooldown old but no older than cooldown+window. The window keeps
	// the daily job from re-notifying the same donors forever.
	ListCooldownLapsed(ctx context.Context, cooldown, window time.Duration) ([]domain.User, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.BloodRequest) error
	// GetByID loads the request with its matched-donor entries in insertion
	// order. Returns domain.ErrNotFound when absent.
	GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error)
	// Update persists the request's mutable fields only if its stored status
	// still equals expectedStatus. Zero rows affected yields
	// domain.ErrConflict so the caller can retry against fresh state.
	Update(ctx context.Context, req *domain.BloodRequest, expectedStatus domain.RequestStatus) error
	// UpsertMatchedDonor inserts the entry or, when the donor already has one
	// on this request, updates it in place. Insertion order is preserved.
	UpsertMatchedDonor(ctx context.Context, requestID int32, entry *domain.MatchedDonor) error
	ListByPatient(ctx context.Context, patientID int32, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error)
	ListByDonor(ctx context.Context, donorID int32, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error)
	// ListStaleActive returns active requests of the given urgencies created
	// before the cutoff.
	ListStaleActive(ctx context.Context, urgencies []domain.UrgencyLevel, createdBefore time.Time) ([]domain.BloodRequest, error)
	Aggregate(ctx context.Context, scope domain.StatScope) (*domain.RequestStatistics, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
