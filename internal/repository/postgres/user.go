package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, phone_number, device_token, name, role, blood_type, lon, lat, is_verified, is_available, last_donation_date, medical_history, created_on, updated_on`

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*domain.User, error) {
	var (
		u              domain.User
		bloodType      sql.NullString
		lon, lat       sql.NullFloat64
		isVerified     sql.NullBool
		isAvailable    sql.NullBool
		lastDonation   sql.NullTime
		medicalHistory sql.NullString
		deviceToken    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &deviceToken, &u.Name, &u.Role,
		&bloodType, &lon, &lat, &isVerified, &isAvailable, &lastDonation, &medicalHistory,
		&u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	u.DeviceToken = deviceToken.String

	switch u.Role {
	case domain.RoleDonor:
		u.Donor = &domain.DonorProfile{
			BloodType:   domain.BloodType(bloodType.String),
			Location:    domain.Coordinate{Lon: lon.Float64, Lat: lat.Float64},
			IsVerified:  isVerified.Bool,
			IsAvailable: isAvailable.Bool,
		}
		if lastDonation.Valid {
			t := lastDonation.Time
			u.Donor.LastDonationDate = &t
		}
	case domain.RolePatient:
		u.Patient = &domain.PatientProfile{MedicalHistory: medicalHistory.String}
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageErr(err)
	}
	return u, nil
}

func (r *userRepository) FindDonorsNear(ctx context.Context, origin domain.Coordinate, radiusKm float64, bloodTypes []domain.BloodType) ([]domain.DonorDistance, error) {
	// Haversine in SQL as a candidate prefilter; the service recomputes the
	// authoritative distance and eligibility in Go.
	inner := `SELECT ` + userColumns + `,
	       6371 * acos(least(1.0, greatest(-1.0,
	           cos(radians($1)) * cos(radians(lat)) * cos(radians(lon) - radians($2)) +
	           sin(radians($1)) * sin(radians(lat))))) AS distance_km
	FROM users
	WHERE role = 'donor' AND is_available = TRUE AND is_verified = TRUE
	  AND lat IS NOT NULL AND lon IS NOT NULL`

	args := []interface{}{origin.Lat, origin.Lon}
	argIdx := 3
	if len(bloodTypes) > 0 {
		types := make([]string, len(bloodTypes))
		for i, bt := range bloodTypes {
			types[i] = string(bt)
		}
		inner += fmt.Sprintf(" AND blood_type = ANY($%d)", argIdx)
		args = append(args, pq.Array(types))
		argIdx++
	}

	query := fmt.Sprintf(`SELECT * FROM (%s) d WHERE d.distance_km <= $%d ORDER BY d.distance_km ASC, d.id ASC`, inner, argIdx)
	args = append(args, radiusKm)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageErr(err)
	}
	defer rows.Close()

	var out []domain.DonorDistance
	for rows.Next() {
		var (
			u              domain.User
			bloodType      sql.NullString
			lon, lat       sql.NullFloat64
			isVerified     sql.NullBool
			isAvailable    sql.NullBool
			lastDonation   sql.NullTime
			medicalHistory sql.NullString
			deviceToken    sql.NullString
			distance       float64
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PhoneNumber, &deviceToken, &u.Name, &u.Role,
			&bloodType, &lon, &lat, &isVerified, &isAvailable, &lastDonation, &medicalHistory,
			&u.CreatedOn, &u.UpdatedOn, &distance); err != nil {
			return nil, domain.StorageErr(err)
		}
		u.DeviceToken = deviceToken.String
		u.Donor = &domain.DonorProfile{
			BloodType:   domain.BloodType(bloodType.String),
			Location:    domain.Coordinate{Lon: lon.Float64, Lat: lat.Float64},
			IsVerified:  isVerified.Bool,
			IsAvailable: isAvailable.Bool,
		}
		if lastDonation.Valid {
			t := lastDonation.Time
			u.Donor.LastDonationDate = &t
		}
		out = append(out, domain.DonorDistance{User: u, DistanceKm: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageErr(err)
	}
	return out, nil
}

func (r *userRepository) UpdateDonorAvailability(ctx context.Context, id int32, isAvailable bool, lastDonationDate *time.Time) error {
	var (
		result sql.Result
		err    error
	)
	if lastDonationDate != nil {
		query := `UPDATE users SET is_available=$1, last_donation_date=$2, updated_on=$3 WHERE id=$4 AND role='donor'`
		result, err = r.db.ExecContext(ctx, query, isAvailable, *lastDonationDate, time.Now(), id)
	} else {
		query := `UPDATE users SET is_available=$1, updated_on=$2 WHERE id=$3 AND role='donor'`
		result, err = r.db.ExecContext(ctx, query, isAvailable, time.Now(), id)
	}
	if err != nil {
		return domain.StorageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StorageErr(err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) ListCooldownLapsed(ctx context.Context, cooldown, window time.Duration) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	WHERE role = 'donor' AND is_available = FALSE
	  AND last_donation_date IS NOT NULL
	  AND last_donation_date <= $1
	  AND last_donation_date > $2
	ORDER BY id ASC`

	now := time.Now()
	rows, err := r.db.QueryContext(ctx, query, now.Add(-cooldown), now.Add(-cooldown-window))
	if err != nil {
		return nil, domain.StorageErr(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.StorageErr(err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageErr(err)
	}
	return users, nil
}
