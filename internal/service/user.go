package service

import (
	"context"
	"fmt"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateAvailability(ctx context.Context, donorID int32, isAvailable bool) error {
	user, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleDonor {
		return fmt.Errorf("%w: only donors have an availability flag", domain.ErrForbidden)
	}
	// The toggle never touches last_donation_date; only request completion
	// does that.
	return s.userRepo.UpdateDonorAvailability(ctx, donorID, isAvailable, nil)
}
