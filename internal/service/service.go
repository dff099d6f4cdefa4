package service

import (
	"context"

	"bloodlink-backend/internal/domain"
)

// CreateRequestInput carries the patient-provided fields for a new request.
type CreateRequestInput struct {
	BloodType     domain.BloodType
	Urgency       domain.UrgencyLevel
	Hospital      domain.Hospital
	RequiredUnits int32
	Description   string
}

type RequestService interface {
	CreateRequest(ctx context.Context, patientID int32, in CreateRequestInput) (*domain.BloodRequest, error)
	GetRequest(ctx context.Context, userID, requestID int32) (*domain.BloodRequest, error)
	ListRequests(ctx context.Context, userID int32, role domain.Role, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error)
	RecordDonorResponse(ctx context.Context, requestID, donorID int32, status domain.ResponseStatus, notes string) (*domain.BloodRequest, error)
	CompleteRequest(ctx context.Context, requestID, actingUserID int32) (*domain.BloodRequest, error)
	CancelRequest(ctx context.Context, requestID, patientID int32, reason string) (*domain.BloodRequest, error)
	GetStatistics(ctx context.Context, scope domain.StatScope) (*domain.RequestStatistics, error)
}

type DonorSearchService interface {
	// FindDonors returns eligible donors compatible with recipientType within
	// radiusKm of origin, ordered ascending by distance. An empty recipient
	// type disables the compatibility filter.
	FindDonors(ctx context.Context, recipientType domain.BloodType, origin *domain.Coordinate, radiusKm float64) ([]domain.DonorMatch, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	// UpdateAvailability is the donor's own opt-in/opt-out toggle.
	UpdateAvailability(ctx context.Context, donorID int32, isAvailable bool) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// NotificationDispatcher fans lifecycle events out to the involved parties.
// Dispatch is fire-and-forget: implementations log failures and never return
// them, so a lifecycle operation cannot fail on notification delivery.
type NotificationDispatcher interface {
	RequestCreated(ctx context.Context, req *domain.BloodRequest, candidates []domain.DonorMatch)
	DonorResponded(ctx context.Context, req *domain.BloodRequest, donor *domain.User, status domain.ResponseStatus)
	RequestCompleted(ctx context.Context, req *domain.BloodRequest, donor *domain.User)
	RequestCancelled(ctx context.Context, req *domain.BloodRequest)
	DonorEligibleAgain(ctx context.Context, donor *domain.User)
}
