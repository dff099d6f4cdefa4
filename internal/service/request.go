package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository"
)

// maxUpdateRetries bounds the optimistic-concurrency loop around conditional
// status updates. Each retry re-reads the request and re-checks the
// transition against fresh state.
const maxUpdateRetries = 3

type requestService struct {
	requestRepo    repository.RequestRepository
	userRepo       repository.UserRepository
	search         DonorSearchService
	dispatcher     NotificationDispatcher
	bus            events.Publisher
	notifyRadiusKm float64
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	search DonorSearchService,
	dispatcher NotificationDispatcher,
	bus events.Publisher,
	notifyRadiusKm float64,
) RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		search:         search,
		dispatcher:     dispatcher,
		bus:            bus,
		notifyRadiusKm: notifyRadiusKm,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, patientID int32, in CreateRequestInput) (*domain.BloodRequest, error) {
	if !in.BloodType.IsValid() {
		return nil, domain.Validationf("unknown blood type %q", in.BloodType)
	}
	if !in.Urgency.IsValid() {
		return nil, domain.Validationf("unknown urgency level %q", in.Urgency)
	}
	if !in.Hospital.Location.IsValid() {
		return nil, domain.Validationf("hospital coordinates out of range")
	}
	if in.RequiredUnits < 0 {
		return nil, domain.Validationf("required units must be positive")
	}
	if in.RequiredUnits == 0 {
		in.RequiredUnits = 1
	}

	req := &domain.BloodRequest{
		PatientID:     patientID,
		BloodType:     in.BloodType,
		Urgency:       in.Urgency,
		Hospital:      in.Hospital,
		RequiredUnits: in.RequiredUnits,
		Description:   in.Description,
		Status:        domain.RequestStatusActive,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	// Donor notification and the realtime event are best-effort: the request
	// is already persisted and must not fail on fan-out problems.
	s.notifyCompatibleDonors(ctx, req)
	if err := s.bus.PublishRequestCreated(ctx, events.RequestCreated{
		RequestID: req.ID,
		PatientID: req.PatientID,
		BloodType: req.BloodType,
		Urgency:   req.Urgency,
	}); err != nil {
		logger.Error("Failed to publish request-created event", "request_id", req.ID, "error", err)
	}

	return req, nil
}

func (s *requestService) notifyCompatibleDonors(ctx context.Context, req *domain.BloodRequest) {
	matches, err := s.search.FindDonors(ctx, req.BloodType, &req.Hospital.Location, s.notifyRadiusKm)
	if err != nil {
		logger.Error("Failed to find donors for new request", "request_id", req.ID, "error", err)
		return
	}
	if len(matches) == 0 {
		logger.Info("No compatible donors in range for new request", "request_id", req.ID, "blood_type", req.BloodType)
		return
	}
	s.dispatcher.RequestCreated(ctx, req, matches)
}

func (s *requestService) GetRequest(ctx context.Context, userID, requestID int32) (*domain.BloodRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.PatientID != userID && req.MatchedDonorEntry(userID) == nil {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

func (s *requestService) ListRequests(ctx context.Context, userID int32, role domain.Role, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error) {
	switch role {
	case domain.RoleDonor:
		return s.requestRepo.ListByDonor(ctx, userID, status, page, pageSize)
	default:
		return s.requestRepo.ListByPatient(ctx, userID, status, page, pageSize)
	}
}

func (s *requestService) RecordDonorResponse(ctx context.Context, requestID, donorID int32, status domain.ResponseStatus, notes string) (*domain.BloodRequest, error) {
	if status != domain.ResponseAccepted && status != domain.ResponseDeclined {
		return nil, domain.Validationf("donor response must be %q or %q", domain.ResponseAccepted, domain.ResponseDeclined)
	}

	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req.Status != domain.RequestStatusActive && req.Status != domain.RequestStatusMatched {
			return nil, fmt.Errorf("%w: request is %s", domain.ErrInvalidState, req.Status)
		}

		now := time.Now()
		entry := req.MatchedDonorEntry(donorID)
		if entry == nil {
			req.MatchedDonors = append(req.MatchedDonors, domain.MatchedDonor{
				DonorID:   donorID,
				MatchedAt: now,
			})
			entry = &req.MatchedDonors[len(req.MatchedDonors)-1]
		}
		entry.Status = status
		entry.RespondedAt = &now
		entry.Notes = notes

		if err := s.requestRepo.UpsertMatchedDonor(ctx, req.ID, entry); err != nil {
			return nil, err
		}

		expected := req.Status
		next := expected
		if status == domain.ResponseAccepted && expected == domain.RequestStatusActive {
			next = domain.RequestStatusMatched
		}
		// An accepted donor may later decline; when that leaves no accepted
		// donor on a matched request, the request reopens for matching.
		if status == domain.ResponseDeclined && expected == domain.RequestStatusMatched && !req.HasAcceptedDonor() {
			next = domain.RequestStatusActive
		}

		if next != expected {
			req.Status = next
			if err := s.requestRepo.Update(ctx, req, expected); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					logger.Warn("Request status changed concurrently, retrying", "request_id", requestID, "attempt", attempt+1)
					continue
				}
				return nil, err
			}
		}

		s.dispatcher.DonorResponded(ctx, req, donor, status)
		if err := s.bus.PublishDonorResponded(ctx, events.DonorResponded{
			RequestID:     req.ID,
			DonorID:       donorID,
			Response:      status,
			RequestStatus: req.Status,
		}); err != nil {
			logger.Error("Failed to publish donor-responded event", "request_id", req.ID, "error", err)
		}
		return req, nil
	}
	return nil, domain.ErrConflict
}

func (s *requestService) CompleteRequest(ctx context.Context, requestID, actingUserID int32) (*domain.BloodRequest, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}

		// Only the owning patient or a donor with an accepted entry may
		// complete.
		if actingUserID != req.PatientID {
			entry := req.MatchedDonorEntry(actingUserID)
			if entry == nil || entry.Status != domain.ResponseAccepted {
				return nil, domain.ErrForbidden
			}
		}
		if req.Status != domain.RequestStatusMatched {
			return nil, fmt.Errorf("%w: request is %s, only matched requests can be completed", domain.ErrInvalidState, req.Status)
		}
		completing := req.FirstAcceptedDonor()
		if completing == nil {
			return nil, fmt.Errorf("%w: matched request has no accepted donor", domain.ErrInvalidState)
		}

		now := time.Now()
		req.Status = domain.RequestStatusCompleted
		req.CompletedAt = &now
		req.CompletedBy = &completing.DonorID

		if err := s.requestRepo.Update(ctx, req, domain.RequestStatusMatched); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				logger.Warn("Request status changed concurrently, retrying", "request_id", requestID, "attempt", attempt+1)
				continue
			}
			return nil, err
		}

		completing.Status = domain.ResponseCompleted
		if err := s.requestRepo.UpsertMatchedDonor(ctx, req.ID, completing); err != nil {
			// The request is already terminal; do not undo the completion.
			logger.Error("Failed to mark completing donor entry", "request_id", req.ID, "donor_id", completing.DonorID, "error", err)
		}

		// Start the donor's cooldown and remove them from matching until they
		// re-opt-in.
		if err := s.userRepo.UpdateDonorAvailability(ctx, completing.DonorID, false, &now); err != nil {
			logger.Error("Failed to update donor availability after completion", "donor_id", completing.DonorID, "error", err)
		}

		donor, err := s.userRepo.GetByID(ctx, completing.DonorID)
		if err != nil {
			logger.Error("Failed to load completing donor", "donor_id", completing.DonorID, "error", err)
		}
		s.dispatcher.RequestCompleted(ctx, req, donor)
		return req, nil
	}
	return nil, domain.ErrConflict
}

func (s *requestService) CancelRequest(ctx context.Context, requestID, patientID int32, reason string) (*domain.BloodRequest, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req.PatientID != patientID {
			return nil, domain.ErrForbidden
		}
		if req.Status != domain.RequestStatusActive && req.Status != domain.RequestStatusMatched {
			return nil, fmt.Errorf("%w: request is %s", domain.ErrInvalidState, req.Status)
		}

		now := time.Now()
		expected := req.Status
		req.Status = domain.RequestStatusCancelled
		req.CancelledAt = &now
		req.CancellationReason = reason

		if err := s.requestRepo.Update(ctx, req, expected); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				logger.Warn("Request status changed concurrently, retrying", "request_id", requestID, "attempt", attempt+1)
				continue
			}
			return nil, err
		}

		s.dispatcher.RequestCancelled(ctx, req)
		return req, nil
	}
	return nil, domain.ErrConflict
}

func (s *requestService) GetStatistics(ctx context.Context, scope domain.StatScope) (*domain.RequestStatistics, error) {
	return s.requestRepo.Aggregate(ctx, scope)
}
