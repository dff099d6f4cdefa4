package domain

import "time"

type NotificationType string

const (
	NotificationRequestCreated   NotificationType = "REQUEST_CREATED"
	NotificationDonorResponded   NotificationType = "DONOR_RESPONDED"
	NotificationRequestCompleted NotificationType = "REQUEST_COMPLETED"
	NotificationRequestCancelled NotificationType = "REQUEST_CANCELLED"
	NotificationCooldownComplete NotificationType = "COOLDOWN_COMPLETE"
)

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityUrgent NotificationPriority = "urgent"
)

type Notification struct {
	ID         int32                `json:"id"`
	UserID     int32                `json:"user_id"`
	Type       NotificationType     `json:"type"`
	Priority   NotificationPriority `json:"priority"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	IsRead     bool                 `json:"is_read"`
	Attributes map[string]string    `json:"attributes"`
	CreatedOn  time.Time            `json:"created_on"`
}
