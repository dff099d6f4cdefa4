package unit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/service"
)

func TestUserService_UpdateAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("Donor toggles availability", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)

		donor := &domain.User{ID: 5, Role: domain.RoleDonor, Donor: &domain.DonorProfile{IsAvailable: false}}
		userRepo.On("GetByID", ctx, int32(5)).Return(donor, nil)
		userRepo.On("UpdateDonorAvailability", ctx, int32(5), true, (*time.Time)(nil)).Return(nil)

		err := svc.UpdateAvailability(ctx, 5, true)
		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("Patient forbidden", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)

		userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Role: domain.RolePatient}, nil)

		err := svc.UpdateAvailability(ctx, 1, true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		userRepo.AssertNotCalled(t, "UpdateDonorAvailability", ctx, int32(1), true, (*time.Time)(nil))
	})

	t.Run("Unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)

		userRepo.On("GetByID", ctx, int32(99)).Return(nil, domain.ErrNotFound)

		err := svc.UpdateAvailability(ctx, 99, true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
