package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/geo"
	"bloodlink-backend/internal/repository"
)

type donorSearchService struct {
	userRepo    repository.UserRepository
	maxRadiusKm float64
}

func NewDonorSearchService(userRepo repository.UserRepository, maxRadiusKm float64) DonorSearchService {
	return &donorSearchService{
		userRepo:    userRepo,
		maxRadiusKm: maxRadiusKm,
	}
}

func (s *donorSearchService) FindDonors(ctx context.Context, recipientType domain.BloodType, origin *domain.Coordinate, radiusKm float64) ([]domain.DonorMatch, error) {
	if origin == nil {
		return nil, fmt.Errorf("%w: origin coordinate is required", domain.ErrInvalidInput)
	}
	if !origin.IsValid() {
		return nil, fmt.Errorf("%w: origin coordinate out of range", domain.ErrInvalidInput)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", domain.ErrInvalidInput)
	}
	if s.maxRadiusKm > 0 && radiusKm > s.maxRadiusKm {
		radiusKm = s.maxRadiusKm
	}

	var types []domain.BloodType
	if recipientType != "" {
		types = domain.CompatibleDonorTypes(recipientType)
		if len(types) == 0 {
			// Unknown recipient type means no compatible donors, not an error.
			return []domain.DonorMatch{}, nil
		}
	}

	candidates, err := s.userRepo.FindDonorsNear(ctx, *origin, radiusKm, types)
	if err != nil {
		return nil, err
	}

	// The store prefilters by availability and distance; eligibility (the
	// cooldown in particular) is recomputed here at evaluation time, and the
	// authoritative distance comes from the same haversine used everywhere.
	now := time.Now()
	type scored struct {
		donor      domain.DonorSummary
		distanceKm float64
	}
	var results []scored
	for i := range candidates {
		u := &candidates[i].User
		if !IsEligible(u, now) {
			continue
		}
		d := geo.DistanceKm(*origin, u.Donor.Location)
		if d > radiusKm {
			continue
		}
		results = append(results, scored{donor: domain.NewDonorSummary(u), distanceKm: d})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].distanceKm != results[j].distanceKm {
			return results[i].distanceKm < results[j].distanceKm
		}
		return results[i].donor.ID < results[j].donor.ID
	})

	matches := make([]domain.DonorMatch, len(results))
	for i, r := range results {
		matches[i] = domain.DonorMatch{Donor: r.donor, DistanceKm: geo.RoundKm(r.distanceKm)}
	}
	return matches, nil
}
