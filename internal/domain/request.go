package domain

import "time"

type RequestStatus string

const (
	RequestStatusActive    RequestStatus = "active"
	RequestStatusMatched   RequestStatus = "matched"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

func (u UrgencyLevel) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

type ResponseStatus string

const (
	ResponsePending   ResponseStatus = "pending"
	ResponseAccepted  ResponseStatus = "accepted"
	ResponseDeclined  ResponseStatus = "declined"
	ResponseCompleted ResponseStatus = "completed"
)

type Hospital struct {
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Location      Coordinate `json:"location"`
	ContactNumber string     `json:"contact_number"`
}

// MatchedDonor is one donor's entry on a request. There is at most one entry
// per donor per request; repeated responses update the entry in place.
type MatchedDonor struct {
	DonorID     int32          `json:"donor_id"`
	Status      ResponseStatus `json:"status"`
	MatchedAt   time.Time      `json:"matched_at"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

type BloodRequest struct {
	ID                 int32          `json:"id"`
	PatientID          int32          `json:"patient_id"`
	BloodType          BloodType      `json:"blood_type"`
	Urgency            UrgencyLevel   `json:"urgency"`
	Hospital           Hospital       `json:"hospital"`
	RequiredUnits      int32          `json:"required_units"`
	Description        string         `json:"description"`
	Status             RequestStatus  `json:"status"`
	MatchedDonors      []MatchedDonor `json:"matched_donors"`
	CompletedBy        *int32         `json:"completed_by,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	CreatedOn          time.Time      `json:"created_on"`
	UpdatedOn          time.Time      `json:"updated_on"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
}

// MatchedDonorEntry returns the entry for the given donor, or nil.
func (r *BloodRequest) MatchedDonorEntry(donorID int32) *MatchedDonor {
	for i := range r.MatchedDonors {
		if r.MatchedDonors[i].DonorID == donorID {
			return &r.MatchedDonors[i]
		}
	}
	return nil
}

// FirstAcceptedDonor returns the earliest-matched entry with an accepted
// response, or nil when none remains.
func (r *BloodRequest) FirstAcceptedDonor() *MatchedDonor {
	for i := range r.MatchedDonors {
		if r.MatchedDonors[i].Status == ResponseAccepted {
			return &r.MatchedDonors[i]
		}
	}
	return nil
}

// HasAcceptedDonor reports whether any entry is currently accepted.
func (r *BloodRequest) HasAcceptedDonor() bool {
	return r.FirstAcceptedDonor() != nil
}

// StatScope narrows statistics to one patient's requests or one donor's
// matches. The zero value means global.
type StatScope struct {
	PatientID *int32
	DonorID   *int32
}

// RequestStatistics is the read-only aggregation returned by GetStatistics.
type RequestStatistics struct {
	Total     int32                   `json:"total"`
	ByStatus  map[RequestStatus]int32 `json:"by_status"`
	ByUrgency map[UrgencyLevel]int32  `json:"by_urgency"`
}
