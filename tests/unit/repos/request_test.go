package repos

import (
	"context"
	"testing"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var requestColumns = []string{
	"id", "patient_id", "blood_type", "urgency",
	"hospital_name", "hospital_address", "hospital_lon", "hospital_lat", "hospital_contact",
	"required_units", "description", "status", "cancellation_reason", "completed_by",
	"created_on", "updated_on", "completed_at", "cancelled_at",
}

func requestRow(id int32, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(requestColumns).
		AddRow(id, 1, "O-", "critical", "City General", "1 Main St", -0.1, 51.5, "555-0100",
			2, "urgent transfusion", status, nil, nil, now, now, nil, nil)
}

func TestRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		req := &domain.BloodRequest{
			PatientID: 1,
			BloodType: domain.BloodONegative,
			Urgency:   domain.UrgencyCritical,
			Hospital: domain.Hospital{
				Name:          "City General",
				Address:       "1 Main St",
				Location:      domain.Coordinate{Lon: -0.1, Lat: 51.5},
				ContactNumber: "555-0100",
			},
			RequiredUnits: 2,
			Description:   "urgent transfusion",
			Status:        domain.RequestStatusActive,
		}

		mock.ExpectQuery("INSERT INTO blood_requests").
			WithArgs(req.PatientID, req.BloodType, req.Urgency,
				req.Hospital.Name, req.Hospital.Address, req.Hospital.Location.Lon, req.Hospital.Location.Lat, req.Hospital.ContactNumber,
				req.RequiredUnits, req.Description, req.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), req.ID)
	})
}

func TestRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Loads matched donors in order", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM blood_requests WHERE id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(requestRow(7, "matched"))

		now := time.Now()
		donorRows := sqlmock.NewRows([]string{"donor_id", "status", "matched_at", "responded_at", "notes"}).
			AddRow(5, "accepted", now, now, "on my way").
			AddRow(9, "declined", now.Add(time.Minute), now.Add(time.Minute), nil)
		mock.ExpectQuery("SELECT (.+) FROM matched_donors WHERE request_id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(donorRows)

		req, err := repo.GetByID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusMatched, req.Status)
		assert.Len(t, req.MatchedDonors, 2)
		assert.Equal(t, int32(5), req.MatchedDonors[0].DonorID)
		assert.Equal(t, domain.ResponseAccepted, req.MatchedDonors[0].Status)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM blood_requests WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(requestColumns))

		req, err := repo.GetByID(ctx, 99)
		assert.Nil(t, req)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRequestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	req := &domain.BloodRequest{ID: 7, Status: domain.RequestStatusMatched}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE blood_requests").
			WithArgs(req.Status, sqlmock.AnyArg(), nil, nil, nil, sqlmock.AnyArg(), req.ID, domain.RequestStatusActive).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, req, domain.RequestStatusActive)
		assert.NoError(t, err)
	})

	t.Run("Stale status yields conflict", func(t *testing.T) {
		mock.ExpectExec("UPDATE blood_requests").
			WithArgs(req.Status, sqlmock.AnyArg(), nil, nil, nil, sqlmock.AnyArg(), req.ID, domain.RequestStatusActive).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, req, domain.RequestStatusActive)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestRequestRepository_UpsertMatchedDonor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	now := time.Now()
	entry := &domain.MatchedDonor{
		DonorID:     5,
		Status:      domain.ResponseAccepted,
		MatchedAt:   now,
		RespondedAt: &now,
		Notes:       "on my way",
	}

	mock.ExpectExec("INSERT INTO matched_donors").
		WithArgs(int32(7), entry.DonorID, entry.Status, entry.MatchedAt, entry.RespondedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertMatchedDonor(ctx, 7, entry)
	assert.NoError(t, err)
}

func TestRequestRepository_Aggregate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Global scope", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"status", "urgency", "count"}).
			AddRow("active", "critical", 2).
			AddRow("active", "low", 1).
			AddRow("completed", "critical", 3)
		mock.ExpectQuery("SELECT status, urgency, count").WillReturnRows(rows)

		stats, err := repo.Aggregate(ctx, domain.StatScope{})
		assert.NoError(t, err)
		assert.Equal(t, int32(6), stats.Total)
		assert.Equal(t, int32(3), stats.ByStatus[domain.RequestStatusActive])
		assert.Equal(t, int32(5), stats.ByUrgency[domain.UrgencyCritical])
	})

	t.Run("Patient scope", func(t *testing.T) {
		patientID := int32(1)
		rows := sqlmock.NewRows([]string{"status", "urgency", "count"}).
			AddRow("cancelled", "medium", 1)
		mock.ExpectQuery("SELECT status, urgency, count").
			WithArgs(patientID).
			WillReturnRows(rows)

		stats, err := repo.Aggregate(ctx, domain.StatScope{PatientID: &patientID})
		assert.NoError(t, err)
		assert.Equal(t, int32(1), stats.Total)
		assert.Equal(t, int32(1), stats.ByStatus[domain.RequestStatusCancelled])
	})
}

func TestRequestRepository_ListStaleActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRequestRepository(db)
	ctx := context.Background()

	cutoff := time.Now().Add(-6 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM blood_requests").
		WithArgs(sqlmock.AnyArg(), cutoff).
		WillReturnRows(requestRow(7, "active"))

	stale, err := repo.ListStaleActive(ctx, []domain.UrgencyLevel{domain.UrgencyHigh, domain.UrgencyCritical}, cutoff)
	assert.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.Equal(t, domain.RequestStatusActive, stale[0].Status)
}
