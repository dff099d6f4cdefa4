package service

import (
	"context"
	"fmt"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/push"
	"bloodlink-backend/internal/repository"
)

type notificationDispatcher struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	sender   push.Sender
}

// NewNotificationDispatcher builds the fan-out side of lifecycle events: a
// persisted notification row per recipient plus a best-effort device push.
// All failures are logged and swallowed here, never surfaced to lifecycle
// callers.
func NewNotificationDispatcher(
	noteRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	sender push.Sender,
) NotificationDispatcher {
	return &notificationDispatcher{
		noteRepo: noteRepo,
		userRepo: userRepo,
		sender:   sender,
	}
}

func priorityFor(urgency domain.UrgencyLevel) domain.NotificationPriority {
	if urgency == domain.UrgencyHigh || urgency == domain.UrgencyCritical {
		return domain.PriorityUrgent
	}
	return domain.PriorityNormal
}

func (d *notificationDispatcher) deliver(ctx context.Context, note *domain.Notification) {
	if err := d.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to persist notification", "user_id", note.UserID, "type", note.Type, "error", err)
	}

	user, err := d.userRepo.GetByID(ctx, note.UserID)
	if err != nil {
		logger.Error("Failed to load notification recipient", "user_id", note.UserID, "error", err)
		return
	}
	if user.DeviceToken == "" {
		return
	}
	if err := d.sender.Send(ctx, user.DeviceToken, note.Title, note.Message, note.Attributes); err != nil {
		logger.Error("Failed to send push notification", "user_id", note.UserID, "type", note.Type, "error", err)
	}
}

func (d *notificationDispatcher) RequestCreated(ctx context.Context, req *domain.BloodRequest, candidates []domain.DonorMatch) {
	for _, match := range candidates {
		d.deliver(ctx, &domain.Notification{
			UserID:   match.Donor.ID,
			Type:     domain.NotificationRequestCreated,
			Priority: priorityFor(req.Urgency),
			Title:    fmt.Sprintf("%s blood needed near you", req.BloodType),
			Message:  fmt.Sprintf("A patient at %s needs %s blood (%s urgency), %.1f km from you.", req.Hospital.Name, req.BloodType, req.Urgency, match.DistanceKm),
			Attributes: map[string]string{
				"request_id":  fmt.Sprintf("%d", req.ID),
				"blood_type":  string(req.BloodType),
				"urgency":     string(req.Urgency),
				"distance_km": fmt.Sprintf("%.1f", match.DistanceKm),
			},
		})
	}
	logger.Info("Notified compatible donors of new request", "request_id", req.ID, "donors", len(candidates))
}

func (d *notificationDispatcher) DonorResponded(ctx context.Context, req *domain.BloodRequest, donor *domain.User, status domain.ResponseStatus) {
	var title, message string
	if status == domain.ResponseAccepted {
		title = "A donor accepted your request"
		message = fmt.Sprintf("%s accepted your %s blood request.", donor.Name, req.BloodType)
	} else {
		title = "A donor declined your request"
		message = fmt.Sprintf("%s declined your %s blood request.", donor.Name, req.BloodType)
	}

	d.deliver(ctx, &domain.Notification{
		UserID:   req.PatientID,
		Type:     domain.NotificationDonorResponded,
		Priority: priorityFor(req.Urgency),
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"request_id": fmt.Sprintf("%d", req.ID),
			"donor_id":   fmt.Sprintf("%d", donor.ID),
			"response":   string(status),
		},
	})
}

func (d *notificationDispatcher) RequestCompleted(ctx context.Context, req *domain.BloodRequest, donor *domain.User) {
	attrs := map[string]string{
		"request_id": fmt.Sprintf("%d", req.ID),
	}
	donorName := "your donor"
	if donor != nil {
		donorName = donor.Name
		attrs["donor_id"] = fmt.Sprintf("%d", donor.ID)
	}

	d.deliver(ctx, &domain.Notification{
		UserID:     req.PatientID,
		Type:       domain.NotificationRequestCompleted,
		Priority:   domain.PriorityNormal,
		Title:      "Blood request completed",
		Message:    fmt.Sprintf("Your %s blood request was completed by %s.", req.BloodType, donorName),
		Attributes: attrs,
	})

	if donor != nil {
		d.deliver(ctx, &domain.Notification{
			UserID:     donor.ID,
			Type:       domain.NotificationRequestCompleted,
			Priority:   domain.PriorityNormal,
			Title:      "Thank you for donating",
			Message:    "Your donation was recorded. You will be notified when you are eligible to donate again.",
			Attributes: attrs,
		})
	}
}

func (d *notificationDispatcher) RequestCancelled(ctx context.Context, req *domain.BloodRequest) {
	for i := range req.MatchedDonors {
		entry := &req.MatchedDonors[i]
		if entry.Status == domain.ResponseDeclined {
			continue
		}
		d.deliver(ctx, &domain.Notification{
			UserID:   entry.DonorID,
			Type:     domain.NotificationRequestCancelled,
			Priority: domain.PriorityNormal,
			Title:    "Blood request cancelled",
			Message:  fmt.Sprintf("The %s blood request you responded to was cancelled.", req.BloodType),
			Attributes: map[string]string{
				"request_id": fmt.Sprintf("%d", req.ID),
				"reason":     req.CancellationReason,
			},
		})
	}
}

func (d *notificationDispatcher) DonorEligibleAgain(ctx context.Context, donor *domain.User) {
	d.deliver(ctx, &domain.Notification{
		UserID:   donor.ID,
		Type:     domain.NotificationCooldownComplete,
		Priority: domain.PriorityNormal,
		Title:    "You can donate again",
		Message:  "Your donation cooldown has ended. Update your availability to start matching again.",
		Attributes: map[string]string{
			"donor_id": fmt.Sprintf("%d", donor.ID),
		},
	})
}
