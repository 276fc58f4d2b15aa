package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/repository/storage"
	"github.com/spently/spently-backend/internal/websocket"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize      = 5 * 1024 * 1024 // 5MB
	MinImageWidth     = 50
	MinImageHeight    = 50
	AvatarSize        = 256
	JPEGQuality       = 85
	AvatarURLLifetime = time.Hour
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

// AllowedExtensions maps accepted upload extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AvatarService validates, normalises and stores profile pictures
type AvatarService struct {
	userRepo  domain.UserRepository
	storage   storage.ObjectStorage
	publisher websocket.EventPublisher
}

// NewAvatarService creates a new AvatarService. A nil storage disables uploads.
func NewAvatarService(userRepo domain.UserRepository, storage storage.ObjectStorage) *AvatarService {
	return &AvatarService{userRepo: userRepo, storage: storage}
}

// SetEventPublisher sets the event publisher for profile change notifications
func (s *AvatarService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateImage validates image format, size and dimensions
func (s *AvatarService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

// UploadAvatar crops the image to a centred square, stores it as JPEG and
// replaces the user's previous avatar.
func (s *AvatarService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*domain.User, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previousKey := user.AvatarKey

	avatar := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, avatar, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.New())
	if _, err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	updated, err := s.userRepo.UpdateAvatar(ctx, userID, &key)
	if err != nil {
		s.deleteObject(ctx, key)
		return nil, err
	}

	if previousKey != nil && *previousKey != key {
		s.deleteObject(ctx, *previousKey)
	}

	s.publishProfileUpdated(userID)
	return updated, nil
}

// DeleteAvatar removes the user's avatar, if any
func (s *AvatarService) DeleteAvatar(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AvatarKey == nil {
		return user, nil
	}
	previousKey := *user.AvatarKey

	updated, err := s.userRepo.UpdateAvatar(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	s.deleteObject(ctx, previousKey)

	s.publishProfileUpdated(userID)
	return updated, nil
}

// AvatarURL returns a presigned URL for the user's avatar, or "" when there is none
func (s *AvatarService) AvatarURL(ctx context.Context, user *domain.User) (string, error) {
	if !s.IsEnabled() || user == nil || user.AvatarKey == nil {
		return "", nil
	}
	return s.storage.GeneratePresignedURL(ctx, *user.AvatarKey, AvatarURLLifetime)
}

// deleteObject logs failures instead of returning them
func (s *AvatarService) deleteObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete avatar object")
	}
}

func (s *AvatarService) publishProfileUpdated(userID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(userID, websocket.ProfileUpdated(map[string]interface{}{"id": userID.String()}))
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
