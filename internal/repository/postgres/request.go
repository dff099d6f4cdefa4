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

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, patient_id, blood_type, urgency, hospital_name, hospital_address, hospital_lon, hospital_lat, hospital_contact, required_units, description, status, cancellation_reason, completed_by, created_on, updated_on, completed_at, cancelled_at`

func (r *requestRepository) Create(ctx context.Context, req *domain.BloodRequest) error {
	query := `INSERT INTO blood_requests (patient_id, blood_type, urgency, hospital_name, hospital_address, hospital_lon, hospital_lat, hospital_contact, required_units, description, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	req.CreatedOn = now
	req.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query,
		req.PatientID, req.BloodType, req.Urgency,
		req.Hospital.Name, req.Hospital.Address, req.Hospital.Location.Lon, req.Hospital.Location.Lat, req.Hospital.ContactNumber,
		req.RequiredUnits, req.Description, req.Status, now, now,
	).Scan(&req.ID)
	if err != nil {
		return domain.StorageErr(err)
	}
	return nil
}

func scanRequest(row interface {
	Scan(dest ...interface{}) error
}) (*domain.BloodRequest, error) {
	var (
		req          domain.BloodRequest
		cancelReason sql.NullString
		completedBy  sql.NullInt32
		completedAt  sql.NullTime
		cancelledAt  sql.NullTime
	)
	err := row.Scan(&req.ID, &req.PatientID, &req.BloodType, &req.Urgency,
		&req.Hospital.Name, &req.Hospital.Address, &req.Hospital.Location.Lon, &req.Hospital.Location.Lat, &req.Hospital.ContactNumber,
		&req.RequiredUnits, &req.Description, &req.Status, &cancelReason, &completedBy,
		&req.CreatedOn, &req.UpdatedOn, &completedAt, &cancelledAt)
	if err != nil {
		return nil, err
	}
	req.CancellationReason = cancelReason.String
	if completedBy.Valid {
		v := completedBy.Int32
		req.CompletedBy = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		req.CompletedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		req.CancelledAt = &t
	}
	return &req, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageErr(err)
	}

	entries, err := r.loadMatchedDonors(ctx, id)
	if err != nil {
		return nil, err
	}
	req.MatchedDonors = entries
	return req, nil
}

func (r *requestRepository) loadMatchedDonors(ctx context.Context, requestID int32) ([]domain.MatchedDonor, error) {
	query := `SELECT donor_id, status, matched_at, responded_at, notes
	          FROM matched_donors WHERE request_id = $1 ORDER BY matched_at ASC, donor_id ASC`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, domain.StorageErr(err)
	}
	defer rows.Close()

	var entries []domain.MatchedDonor
	for rows.Next() {
		var (
			md          domain.MatchedDonor
			respondedAt sql.NullTime
			notes       sql.NullString
		)
		if err := rows.Scan(&md.DonorID, &md.Status, &md.MatchedAt, &respondedAt, &notes); err != nil {
			return nil, domain.StorageErr(err)
		}
		if respondedAt.Valid {
			t := respondedAt.Time
			md.RespondedAt = &t
		}
		md.Notes = notes.String
		entries = append(entries, md)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageErr(err)
	}
	return entries, nil
}

// Update is a conditional write: it only lands when the stored status still
// equals expectedStatus. Zero rows affected means the request changed
// underneath and the caller must re-read and retry.
func (r *requestRepository) Update(ctx context.Context, req *domain.BloodRequest, expectedStatus domain.RequestStatus) error {
	query := `UPDATE blood_requests
	          SET status=$1, cancellation_reason=$2, completed_by=$3, completed_at=$4, cancelled_at=$5, updated_on=$6
	          WHERE id=$7 AND status=$8`
	result, err := r.db.ExecContext(ctx, query,
		req.Status, nullString(req.CancellationReason), req.CompletedBy, req.CompletedAt, req.CancelledAt, time.Now(),
		req.ID, expectedStatus)
	if err != nil {
		return domain.StorageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StorageErr(err)
	}
	if rows == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *requestRepository) UpsertMatchedDonor(ctx context.Context, requestID int32, entry *domain.MatchedDonor) error {
	query := `INSERT INTO matched_donors (request_id, donor_id, status, matched_at, responded_at, notes)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (request_id, donor_id)
	          DO UPDATE SET status = EXCLUDED.status, responded_at = EXCLUDED.responded_at, notes = EXCLUDED.notes`
	_, err := r.db.ExecContext(ctx, query, requestID, entry.DonorID, entry.Status, entry.MatchedAt, entry.RespondedAt, nullString(entry.Notes))
	if err != nil {
		return domain.StorageErr(err)
	}
	return nil
}

func (r *requestRepository) ListByPatient(ctx context.Context, patientID int32, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error) {
	where := `WHERE patient_id = $1`
	args := []interface{}{patientID}
	return r.list(ctx, where, args, status, page, pageSize)
}

func (r *requestRepository) ListByDonor(ctx context.Context, donorID int32, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error) {
	where := `WHERE id IN (SELECT request_id FROM matched_donors WHERE donor_id = $1)`
	args := []interface{}{donorID}
	return r.list(ctx, where, args, status, page, pageSize)
}

func (r *requestRepository) list(ctx context.Context, where string, args []interface{}, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error) {
	base := `SELECT ` + requestColumns + ` FROM blood_requests ` + where
	argIdx := len(args) + 1
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + base + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, domain.StorageErr(err)
	}

	offset := (page - 1) * pageSize
	base += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, base, args...)
	if err != nil {
		return nil, 0, domain.StorageErr(err)
	}
	defer rows.Close()

	var requests []domain.BloodRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, domain.StorageErr(err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.StorageErr(err)
	}
	return requests, count, nil
}

func (r *requestRepository) ListStaleActive(ctx context.Context, urgencies []domain.UrgencyLevel, createdBefore time.Time) ([]domain.BloodRequest, error) {
	levels := make([]string, len(urgencies))
	for i, u := range urgencies {
		levels[i] = string(u)
	}
	query := `SELECT ` + requestColumns + ` FROM blood_requests
	          WHERE status = 'active' AND urgency = ANY($1) AND created_on < $2
	          ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(levels), createdBefore)
	if err != nil {
		return nil, domain.StorageErr(err)
	}
	defer rows.Close()

	var requests []domain.BloodRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, domain.StorageErr(err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageErr(err)
	}
	return requests, nil
}

func (r *requestRepository) Aggregate(ctx context.Context, scope domain.StatScope) (*domain.RequestStatistics, error) {
	query := `SELECT status, urgency, count(*) FROM blood_requests`
	var args []interface{}
	switch {
	case scope.PatientID != nil:
		query += ` WHERE patient_id = $1`
		args = append(args, *scope.PatientID)
	case scope.DonorID != nil:
		query += ` WHERE id IN (SELECT request_id FROM matched_donors WHERE donor_id = $1)`
		args = append(args, *scope.DonorID)
	}
	query += ` GROUP BY status, urgency`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageErr(err)
	}
	defer rows.Close()

	stats := &domain.RequestStatistics{
		ByStatus:  make(map[domain.RequestStatus]int32),
		ByUrgency: make(map[domain.UrgencyLevel]int32),
	}
	for rows.Next() {
		var (
			status  domain.RequestStatus
			urgency domain.UrgencyLevel
			count   int32
		)
		if err := rows.Scan(&status, &urgency, &count); err != nil {
			return nil, domain.StorageErr(err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByUrgency[urgency] += count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageErr(err)
	}
	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
