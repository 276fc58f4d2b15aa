package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spently/spently-backend/internal/domain"
)

func TestGetAuth0ID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns auth0 id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), Auth0IDKey, "auth0|12345")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "auth0|12345",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			result := GetAuth0ID(c)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetClaims(c)
		if result == nil {
			t.Fatal("Expected claims, got nil")
		}
		if result.RegisteredClaims.Subject != "auth0|test" {
			t.Errorf("Expected subject 'auth0|test', got %q", result.RegisteredClaims.Subject)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		result := GetClaims(c)
		if result != nil {
			t.Error("Expected nil, got claims")
		}
	})
}

func TestGetCustomClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns custom claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		customClaims := &CustomClaims{
			Email:   "test@example.com",
			Name:    "Test User",
			Picture: "https://example.com/pic.jpg",
		}
		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
			CustomClaims: customClaims,
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetCustomClaims(c)
		if result == nil {
			t.Fatal("Expected custom claims, got nil")
		}
		if result.Email != "test@example.com" {
			t.Errorf("Expected email 'test@example.com', got %q", result.Email)
		}
		if result.Name != "Test User" {
			t.Errorf("Expected name 'Test User', got %q", result.Name)
		}
	})

	t.Run("returns nil when claims not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		result := GetCustomClaims(c)
		if result != nil {
			t.Error("Expected nil, got custom claims")
		}
	})
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{
		Email: "test@example.com",
		Name:  "Test",
	}

	err := claims.Validate(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

type stubValidator struct {
	claims interface{}
	err    error
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	return s.claims, s.err
}

type stubUserProvider struct {
	users map[string]uuid.UUID
	err   error
}

func (s *stubUserProvider) GetUserIDByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	if id, ok := s.users[auth0ID]; ok {
		return id, nil
	}
	return uuid.Nil, domain.ErrUserNotFound
}

func subjectClaims(subject string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
		CustomClaims:     &CustomClaims{Email: "user@example.com"},
	}
}

func runAuthenticate(t *testing.T, m *AuthMiddleware, header string) (*httptest.ResponseRecorder, echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen echo.Context
	err := m.Authenticate()(func(c echo.Context) error {
		called = true
		seen = c
		return c.NoContent(http.StatusOK)
	})(c)
	if seen == nil {
		seen = c
	}
	return rec, seen, called, err
}

func TestAuthenticate_RejectsBadHeaders(t *testing.T) {
	m := NewAuthMiddlewareWith(&stubValidator{claims: subjectClaims("auth0|1")}, nil)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "invalid-token"},
		{"wrong prefix", "Basic token123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called, err := runAuthenticate(t, m, tt.header)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if called {
				t.Error("Expected next handler not to be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := NewAuthMiddlewareWith(&stubValidator{err: errors.New("bad signature")}, nil)

	rec, _, called, err := runAuthenticate(t, m, "Bearer abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if called || rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthenticate_InjectsUserID(t *testing.T) {
	userID := uuid.New()
	provider := &stubUserProvider{users: map[string]uuid.UUID{"auth0|1": userID}}
	m := NewAuthMiddlewareWith(&stubValidator{claims: subjectClaims("auth0|1")}, provider)

	_, c, called, err := runAuthenticate(t, m, "Bearer abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !called {
		t.Fatal("Expected next handler to be called")
	}
	if got := GetUserID(c); got != userID {
		t.Errorf("Expected user ID %s, got %s", userID, got)
	}
	if got := GetAuth0ID(c); got != "auth0|1" {
		t.Errorf("Expected auth0 id auth0|1, got %q", got)
	}
	if custom := GetCustomClaims(c); custom == nil || custom.Email != "user@example.com" {
		t.Errorf("Expected custom claims to be available, got %+v", custom)
	}
}

func TestAuthenticate_UnknownUserPassesThrough(t *testing.T) {
	provider := &stubUserProvider{users: map[string]uuid.UUID{}}
	m := NewAuthMiddlewareWith(&stubValidator{claims: subjectClaims("auth0|new")}, provider)

	_, c, called, err := runAuthenticate(t, m, "Bearer abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !called {
		t.Fatal("Expected next handler to be called")
	}
	if got := GetUserID(c); got != uuid.Nil {
		t.Errorf("Expected nil user ID, got %s", got)
	}
}

func TestAuthenticate_LookupFailure(t *testing.T) {
	provider := &stubUserProvider{err: errors.New("db down")}
	m := NewAuthMiddlewareWith(&stubValidator{claims: subjectClaims("auth0|1")}, provider)

	_, _, called, err := runAuthenticate(t, m, "Bearer abc")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if called {
		t.Error("Expected next handler not to be called")
	}
}

func TestRequireUser(t *testing.T) {
	e := echo.New()
	handler := RequireUser()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("rejects missing user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := handler(c); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("allows known user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		withUserID(c, uuid.New())
		if err := handler(c); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
	})
}
