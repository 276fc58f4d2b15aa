package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/websocket"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryService handles expense category business logic
type CategoryService struct {
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CategoryService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Category, error) {
	name, color, err := validateCategory(name, color)
	if err != nil {
		return nil, err
	}

	created, err := s.categoryRepo.Create(ctx, &domain.Category{
		UserID: userID,
		Name:   name,
		Color:  color,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.CategoryCreated(created))
	return created, nil
}

// GetCategories lists the user's categories with their expense count and sum
func (s *CategoryService) GetCategories(ctx context.Context, userID uuid.UUID) ([]*domain.CategoryWithStats, error) {
	return s.categoryRepo.GetAllWithStats(ctx, userID)
}

// GetCategoryByID retrieves a category owned by the user
func (s *CategoryService) GetCategoryByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, userID, id)
}

// UpdateCategory renames or recolours a category
func (s *CategoryService) UpdateCategory(ctx context.Context, userID uuid.UUID, id int32, name, color string) (*domain.Category, error) {
	name, color, err := validateCategory(name, color)
	if err != nil {
		return nil, err
	}

	updated, err := s.categoryRepo.Update(ctx, &domain.Category{
		ID:     id,
		UserID: userID,
		Name:   name,
		Color:  color,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.CategoryUpdated(updated))
	return updated, nil
}

// DeleteCategory deletes a category together with its expenses
func (s *CategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, id int32) error {
	if err := s.categoryRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.CategoryDeleted(map[string]interface{}{"id": id}))
	return nil
}

// validateCategory returns the normalised name and colour
func validateCategory(name, color string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > domain.MaxCategoryNameLength {
		return "", "", domain.ErrNameTooLong
	}

	color = strings.TrimSpace(color)
	if !colorPattern.MatchString(color) {
		return "", "", domain.ErrInvalidColor
	}
	return name, strings.ToUpper(color), nil
}
