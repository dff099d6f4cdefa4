package events

import (
	"context"
	"time"

	"bloodlink-backend/internal/domain"
)

// Channels the core publishes on. Broadcast/delivery mechanics (websocket
// fan-out and friends) live outside this service.
const (
	ChannelRequestCreated = "blood.request-created"
	ChannelDonorResponded = "blood.donor-responded"
)

type RequestCreated struct {
	EventID    string              `json:"event_id"`
	RequestID  int32               `json:"request_id"`
	PatientID  int32               `json:"patient_id"`
	BloodType  domain.BloodType    `json:"blood_type"`
	Urgency    domain.UrgencyLevel `json:"urgency"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type DonorResponded struct {
	EventID       string                `json:"event_id"`
	RequestID     int32                 `json:"request_id"`
	DonorID       int32                 `json:"donor_id"`
	Response      domain.ResponseStatus `json:"response"`
	RequestStatus domain.RequestStatus  `json:"request_status"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// Publisher emits lifecycle events keyed by request id.
type Publisher interface {
	PublishRequestCreated(ctx context.Context, e RequestCreated) error
	PublishDonorResponded(ctx context.Context, e DonorResponded) error
}
