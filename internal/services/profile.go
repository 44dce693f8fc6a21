package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

type ProfileService interface {
	Get(ctx context.Context) (*types.UserProfile, error)
	// Set overwrites the onboarding record; the profile is immutable except
	// by explicit re-onboarding, which goes through here again.
	Set(ctx context.Context, profile *types.UserProfile) (*types.UserProfile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
	}
}

func (ps *profileService) Get(ctx context.Context) (*types.UserProfile, error) {
	return ps.profileRepo.Get(ctx, nil)
}

func (ps *profileService) Set(ctx context.Context, profile *types.UserProfile) (*types.UserProfile, error) {
	if _, err := types.ParseUserRole(string(profile.Role)); err != nil {
		return nil, err
	}
	if _, err := types.ParseExperienceLevel(string(profile.Level)); err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	saved, err := ps.profileRepo.Upsert(ctx, nil, profile)
	if err != nil {
		ps.log.Error("Failed to save profile", "error", err)
		return nil, err
	}
	return saved, nil
}
