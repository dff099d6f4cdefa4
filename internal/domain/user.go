package domain

import "time"

type Role string

const (
	RoleDonor   Role = "donor"
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// Coordinate is a (longitude, latitude) pair in degrees.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// IsValid reports whether the coordinate lies within the valid degree ranges.
func (c Coordinate) IsValid() bool {
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

type User struct {
	ID           int32           `json:"id"`
	Email        string          `json:"email"`
	PhoneNumber  string          `json:"phone_number"`
	PasswordHash string          `json:"-"`
	DeviceToken  string          `json:"-"`
	Name         string          `json:"name"`
	Role         Role            `json:"role"`
	Donor        *DonorProfile   `json:"donor,omitempty"`
	Patient      *PatientProfile `json:"patient,omitempty"`
	CreatedOn    time.Time       `json:"created_on"`
	UpdatedOn    time.Time       `json:"updated_on"`
}

// DonorProfile holds the fields that only exist for users with RoleDonor.
type DonorProfile struct {
	BloodType        BloodType  `json:"blood_type"`
	Location         Coordinate `json:"location"`
	IsVerified       bool       `json:"is_verified"`
	IsAvailable      bool       `json:"is_available"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
}

// PatientProfile holds the fields that only exist for users with RolePatient.
type PatientProfile struct {
	MedicalHistory string `json:"-"`
}

// DonorSummary is the projection of a donor exposed by search results.
// Credentials, device tokens and medical history never leave the service.
type DonorSummary struct {
	ID          int32      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	BloodType   BloodType  `json:"blood_type"`
	Location    Coordinate `json:"location"`
	IsVerified  bool       `json:"is_verified"`
}

// NewDonorSummary projects a donor user into its public search shape.
func NewDonorSummary(u *User) DonorSummary {
	s := DonorSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
	if u.Donor != nil {
		s.BloodType = u.Donor.BloodType
		s.Location = u.Donor.Location
		s.IsVerified = u.Donor.IsVerified
	}
	return s
}

// DonorMatch pairs a donor with their distance from a search origin,
// rounded for display.
type DonorMatch struct {
	Donor      DonorSummary `json:"donor"`
	DistanceKm float64      `json:"distance_km"`
}

// DonorDistance is the raw proximity-query result row: the full donor record
// plus the unrounded distance computed by the store.
type DonorDistance struct {
	User       User
	DistanceKm float64
}
