package domain

import "errors"

// Domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInternalError         = errors.New("internal error")
	ErrUserNotFound          = errors.New("user not found")
	ErrNameRequired          = errors.New("name is required")
	ErrNameTooLong           = errors.New("name exceeds maximum length")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrInvalidColor          = errors.New("color must be a hex value like #RRGGBB")
	ErrExpenseNotFound       = errors.New("expense not found")
	ErrDescriptionRequired   = errors.New("description is required")
	ErrDescriptionTooLong    = errors.New("description exceeds maximum length")
	ErrInvalidAmount         = errors.New("amount must be zero or positive with at most two decimals")
	ErrDateRequired          = errors.New("date is required")

	// ErrInvalidArgument marks a summary period outside the accepted range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDataIntegrity marks an expense that references a category missing from the same snapshot.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// Validation constants
const (
	MaxCategoryNameLength       = 255
	MaxExpenseDescriptionLength = 255
	MaxProfileNameLength        = 255
)
