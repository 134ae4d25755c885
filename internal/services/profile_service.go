package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agri_market/internal/geo"
	"agri_market/internal/models"
	"agri_market/internal/repository"

	"gorm.io/gorm"
)

// ProfileService separates looking a profile up from creating one. Find
// never creates; GetOrCreate applies the default policy below.
type ProfileService interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	UpdateLocation(ctx context.Context, userID uint, input LocationInput) (*models.User, error)
	FindSupplierProfile(ctx context.Context, userID uint) (*models.SupplierProfile, bool, error)
	GetOrCreateSupplierProfile(ctx context.Context, userID uint) (*models.SupplierProfile, bool, error)
	FindFarmerProfile(ctx context.Context, userID uint) (*models.FarmerProfile, bool, error)
	GetOrCreateFarmerProfile(ctx context.Context, userID uint) (*models.FarmerProfile, bool, error)
}

type LocationInput struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address"`
}

type profileService struct {
	repos      *repository.Repositories
	dispatcher *Dispatcher
}

func NewProfileService(repos *repository.Repositories, dispatcher *Dispatcher) ProfileService {
	return &profileService{repos: repos, dispatcher: dispatcher}
}

// DefaultSupplierProfile is what GetOrCreate stores for a new supplier.
func DefaultSupplierProfile(user *models.User) *models.SupplierProfile {
	return &models.SupplierProfile{
		UserID:       user.ID,
		BusinessName: fmt.Sprintf("%s's Business", user.Username),
		OwnerName:    user.Username,
		Description:  "Please update your business profile",
		IsActive:     true,
	}
}

func DefaultFarmerProfile(user *models.User) *models.FarmerProfile {
	return &models.FarmerProfile{
		UserID:   user.ID,
		FarmName: fmt.Sprintf("%s's Farm", user.Username),
	}
}

func (s *profileService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return user, nil
}

func (s *profileService) UpdateLocation(ctx context.Context, userID uint, input LocationInput) (*models.User, error) {
	if input.Latitude == nil || input.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidInput)
	}
	if !geo.ValidCoordinates(*input.Latitude, *input.Longitude) {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}

	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, "user", userID)
	}
	err := s.repos.Users.UpdateLocation(ctx, userID, *input.Latitude, *input.Longitude, strings.TrimSpace(input.Address))
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	// Owner locations feed every search result.
	s.dispatcher.dispatch(ctx, &outbox{invalidateCatalog: true})

	return s.repos.Users.GetByID(ctx, userID)
}

func (s *profileService) FindSupplierProfile(ctx context.Context, userID uint) (*models.SupplierProfile, bool, error) {
	return s.repos.Profiles.FindSupplierByUserID(ctx, userID)
}

func (s *profileService) GetOrCreateSupplierProfile(ctx context.Context, userID uint) (*models.SupplierProfile, bool, error) {
	profile, found, err := s.repos.Profiles.FindSupplierByUserID(ctx, userID)
	if err != nil || found {
		return profile, false, err
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, false, notFound(err, "user", userID)
	}

	profile = DefaultSupplierProfile(user)
	if err := s.repos.Profiles.CreateSupplier(ctx, profile); err != nil {
		// Lost a race with a concurrent create: return the winner's row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			profile, _, err = s.repos.Profiles.FindSupplierByUserID(ctx, userID)
			return profile, false, err
		}
		return nil, false, fmt.Errorf("failed to create supplier profile: %w", err)
	}
	profile.User = *user
	return profile, true, nil
}

func (s *profileService) FindFarmerProfile(ctx context.Context, userID uint) (*models.FarmerProfile, bool, error) {
	return s.repos.Profiles.FindFarmerByUserID(ctx, userID)
}

func (s *profileService) GetOrCreateFarmerProfile(ctx context.Context, userID uint) (*models.FarmerProfile, bool, error) {
	profile, found, err := s.repos.Profiles.FindFarmerByUserID(ctx, userID)
	if err != nil || found {
		return profile, false, err
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, false, notFound(err, "user", userID)
	}

	profile = DefaultFarmerProfile(user)
	if err := s.repos.Profiles.CreateFarmer(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			profile, _, err = s.repos.Profiles.FindFarmerByUserID(ctx, userID)
			return profile, false, err
		}
		return nil, false, fmt.Errorf("failed to create farmer profile: %w", err)
	}
	profile.User = *user
	return profile, true, nil
}
