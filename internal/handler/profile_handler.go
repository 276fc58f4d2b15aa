package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/middleware"
	"github.com/spently/spently-backend/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
	avatarService  *service.AvatarService
}

// NewProfileHandler creates a new ProfileHandler. avatarService may be nil.
func NewProfileHandler(profileService *service.ProfileService, avatarService *service.AvatarService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		avatarService:  avatarService,
	}
}

// UpdateProfileRequest represents the update profile request
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	profile, err := h.profileService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, toUserResponse(profile))
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "Invalid request body")
	}

	profile, err := h.profileService.UpdateProfile(c.Request().Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")

	return c.JSON(http.StatusOK, toUserResponse(profile))
}

// UploadAvatar handles POST /profile/avatar
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.avatarService == nil || !h.avatarService.IsEnabled() {
		return NewServiceUnavailableError(c, "Avatar uploads are disabled (storage not configured)")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "avatar", Message: "File is required"},
		})
	}
	if file.Size > service.MaxImageSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "avatar", Message: "File too large. Maximum size is 5MB"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	ctx := c.Request().Context()
	user, err := h.avatarService.UploadAvatar(ctx, userID, data, file.Filename)
	if err != nil {
		if detail, ok := avatarValidationMessage(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "avatar", Message: detail},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upload avatar")
		return NewInternalError(c, "Failed to upload avatar")
	}

	log.Info().Str("user_id", userID.String()).Msg("Avatar uploaded")

	return c.JSON(http.StatusOK, toUserResponse(h.profileService.ToProfile(ctx, user)))
}

// DeleteAvatar handles DELETE /profile/avatar
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.avatarService == nil || !h.avatarService.IsEnabled() {
		return NewServiceUnavailableError(c, "Avatar deletion is disabled (storage not configured)")
	}

	ctx := c.Request().Context()
	user, err := h.avatarService.DeleteAvatar(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete avatar")
		return NewInternalError(c, "Failed to delete avatar")
	}

	return c.JSON(http.StatusOK, toUserResponse(h.profileService.ToProfile(ctx, user)))
}

func avatarValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrImageTooLarge):
		return "File too large. Maximum size is 5MB", true
	case errors.Is(err, service.ErrInvalidFormat):
		return "Invalid format. Supported: JPEG, PNG, WebP", true
	case errors.Is(err, service.ErrImageTooSmall):
		return "Image too small. Minimum 50x50 pixels", true
	case errors.Is(err, service.ErrInvalidImageData):
		return "Invalid image data", true
	}
	return "", false
}
