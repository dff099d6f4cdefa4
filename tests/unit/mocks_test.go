package unit

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/events"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) FindDonorsNear(ctx context.Context, origin domain.Coordinate, radiusKm float64, bloodTypes []domain.BloodType) ([]domain.DonorDistance, error) {
	args := m.Called(ctx, origin, radiusKm, bloodTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorDistance), args.Error(1)
}
func (m *MockUserRepo) UpdateDonorAvailability(ctx context.Context, id int32, isAvailable bool, lastDonationDate *time.Time) error {
	args := m.Called(ctx, id, isAvailable, lastDonationDate)
	return args.Error(0)
}
func (m *MockUserRepo) ListCooldownLapsed(ctx context.Context, cooldown, window time.Duration) ([]domain.User, error) {
	args := m.Called(ctx, cooldown, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.BloodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BloodRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}
func (m *MockRequestRepo) Update(ctx context.Context, req *domain.BloodRequest, expectedStatus domain.RequestStatus) error {
	args := m.Called(ctx, req, expectedStatus)
	return args.Error(0)
}
func (m *MockRequestRepo) UpsertMatchedDonor(ctx context.Context, requestID int32, entry *domain.MatchedDonor) error {
	args := m.Called(ctx, requestID, entry)
	return args.Error(0)
}
func (m *MockRequestRepo) ListByPatient(ctx context.Context, patientID int32, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error) {
	args := m.Called(ctx, patientID, status, page, pageSize)
	return args.Get(0).([]domain.BloodRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestRepo) ListByDonor(ctx context.Context, donorID int32, status domain.RequestStatus, page, pageSize int32) ([]domain.BloodRequest, int32, error) {
	args := m.Called(ctx, donorID, status, page, pageSize)
	return args.Get(0).([]domain.BloodRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestRepo) ListStaleActive(ctx context.Context, urgencies []domain.UrgencyLevel, createdBefore time.Time) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, urgencies, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}
func (m *MockRequestRepo) Aggregate(ctx context.Context, scope domain.StatScope) (*domain.RequestStatistics, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestStatistics), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockDonorSearch
type MockDonorSearch struct {
	mock.Mock
}

func (m *MockDonorSearch) FindDonors(ctx context.Context, recipientType domain.BloodType, origin *domain.Coordinate, radiusKm float64) ([]domain.DonorMatch, error) {
	args := m.Called(ctx, recipientType, origin, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorMatch), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) RequestCreated(ctx context.Context, req *domain.BloodRequest, candidates []domain.DonorMatch) {
	m.Called(ctx, req, candidates)
}
func (m *MockDispatcher) DonorResponded(ctx context.Context, req *domain.BloodRequest, donor *domain.User, status domain.ResponseStatus) {
	m.Called(ctx, req, donor, status)
}
func (m *MockDispatcher) RequestCompleted(ctx context.Context, req *domain.BloodRequest, donor *domain.User) {
	m.Called(ctx, req, donor)
}
func (m *MockDispatcher) RequestCancelled(ctx context.Context, req *domain.BloodRequest) {
	m.Called(ctx, req)
}
func (m *MockDispatcher) DonorEligibleAgain(ctx context.Context, donor *domain.User) {
	m.Called(ctx, donor)
}

// MockPushSender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	args := m.Called(ctx, deviceToken, title, body, data)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRequestCreated(ctx context.Context, e events.RequestCreated) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockPublisher) PublishDonorResponded(ctx context.Context, e events.DonorResponded) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
