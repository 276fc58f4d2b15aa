package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spently/spently-backend/internal/domain"
)

// Profile is a user as shown to themselves, with a readable avatar URL
type Profile struct {
	*domain.User
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo domain.UserRepository
	avatars  *AvatarService
}

// NewProfileService creates a new ProfileService. avatars may be nil.
func NewProfileService(userRepo domain.UserRepository, avatars *AvatarService) *ProfileService {
	return &ProfileService{userRepo: userRepo, avatars: avatars}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ToProfile(ctx, user), nil
}

// UpdateProfile updates a user's display name
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > domain.MaxProfileNameLength {
		return nil, domain.ErrNameTooLong
	}

	user, err := s.userRepo.UpdateName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return s.ToProfile(ctx, user), nil
}

// ToProfile attaches a presigned avatar URL to the user. Presigning failures
// leave the URL empty.
func (s *ProfileService) ToProfile(ctx context.Context, user *domain.User) *Profile {
	profile := &Profile{User: user}
	if s.avatars == nil {
		return profile
	}
	url, err := s.avatars.AvatarURL(ctx, user)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to presign avatar URL")
		return profile
	}
	profile.AvatarURL = url
	return profile
}
