package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/spently/spently-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, error)
	UpdateFn func(id uuid.UUID, name string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.AddUser(user)
	return user, nil
}

// UpdateName updates only the user's name
func (m *MockUserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, name)
	}
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// UpdateAvatar sets or clears the stored avatar object key
func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarKey *string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.AvatarKey = avatarKey
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	// Expenses backs the count/sum stats of GetAllWithStats when set
	Expenses   *MockExpenseRepository
	CreateFn   func(category *domain.Category) (*domain.Category, error)
	GetAllFn   func(userID uuid.UUID) ([]*domain.CategoryWithStats, error)
	DeleteFn   func(userID uuid.UUID, id int32) error
	DeletedIDs []int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category, rejecting duplicate names per user
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	if m.nameTaken(category.UserID, category.Name, 0) {
		return nil, domain.ErrCategoryAlreadyExists
	}
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category owned by the user
func (m *MockCategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetAllWithStats lists the user's categories ordered by name
func (m *MockCategoryRepository) GetAllWithStats(ctx context.Context, userID uuid.UUID) ([]*domain.CategoryWithStats, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(userID)
	}
	result := make([]*domain.CategoryWithStats, 0)
	for _, c := range m.Categories {
		if c.UserID != userID {
			continue
		}
		stats := &domain.CategoryWithStats{Category: *c, ExpensesSum: decimal.Zero}
		if m.Expenses != nil {
			for _, e := range m.Expenses.Expenses {
				if e.UserID == userID && e.CategoryID == c.ID {
					stats.ExpensesCount++
					stats.ExpensesSum = stats.ExpensesSum.Add(e.Amount)
				}
			}
		}
		result = append(result, stats)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update updates a category's name and color
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	existing, ok := m.Categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return nil, domain.ErrCategoryNotFound
	}
	if m.nameTaken(category.UserID, category.Name, category.ID) {
		return nil, domain.ErrCategoryAlreadyExists
	}
	existing.Name = category.Name
	existing.Color = category.Color
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// Delete removes a category and, like the foreign key cascade, its expenses
func (m *MockCategoryRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	m.DeletedIDs = append(m.DeletedIDs, id)
	if m.Expenses != nil {
		for eid, e := range m.Expenses.Expenses {
			if e.CategoryID == id {
				delete(m.Expenses.Expenses, eid)
			}
		}
	}
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

func (m *MockCategoryRepository) nameTaken(userID uuid.UUID, name string, exceptID int32) bool {
	for _, c := range m.Categories {
		if c.UserID == userID && c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
	// Categories resolves the joined category when set
	Categories *MockCategoryRepository
	CreateFn   func(expense *domain.Expense) (*domain.Expense, error)
	ListFn     func(userID uuid.UUID, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error)
	ListAllFn  func(userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error)
	LastFilter *domain.ExpenseFilters
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = m.NextID
	m.NextID++
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	return m.withCategory(expense), nil
}

// GetByID retrieves an expense owned by the user
func (m *MockExpenseRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	return m.withCategory(expense), nil
}

// List returns one page of the user's filtered expenses
func (m *MockExpenseRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	m.LastFilter = filters
	if m.ListFn != nil {
		return m.ListFn(userID, filters)
	}
	all := m.filter(userID, filters)

	page, perPage := int32(1), int32(domain.DefaultExpensePerPage)
	if filters != nil && filters.Page > 0 {
		page = filters.Page
	}
	if filters != nil && filters.PerPage > 0 {
		perPage = filters.PerPage
	}

	sum := decimal.Zero
	for _, e := range all {
		sum = sum.Add(e.Amount)
	}

	total := int64(len(all))
	lastPage := int32((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	start := int((page - 1) * perPage)
	end := start + int(perPage)
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	return &domain.PaginatedExpenses{
		Data:     all[start:end],
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: lastPage,
		TotalSum: sum,
	}, nil
}

// ListAll returns every filtered expense of the user
func (m *MockExpenseRepository) ListAll(ctx context.Context, userID uuid.UUID, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	m.LastFilter = filters
	if m.ListAllFn != nil {
		return m.ListAllFn(userID, filters)
	}
	return m.filter(userID, filters), nil
}

// Update updates an expense
func (m *MockExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	existing, ok := m.Expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return nil, domain.ErrExpenseNotFound
	}
	existing.CategoryID = expense.CategoryID
	existing.Date = expense.Date
	existing.Description = expense.Description
	existing.Amount = expense.Amount
	existing.UpdatedAt = time.Now()
	return m.withCategory(existing), nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.Expenses[expense.ID] = expense
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
}

func (m *MockExpenseRepository) withCategory(e *domain.Expense) *domain.Expense {
	if m.Categories == nil {
		return e
	}
	if c, ok := m.Categories.Categories[e.CategoryID]; ok {
		e.Category = c
	}
	return e
}

func (m *MockExpenseRepository) filter(userID uuid.UUID, filters *domain.ExpenseFilters) []*domain.Expense {
	result := make([]*domain.Expense, 0)
	for _, e := range m.Expenses {
		if e.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.HasMonth() && (int(e.Date.Month()) != *filters.Month || e.Date.Year() != *filters.Year) {
				continue
			}
			if filters.StartDate != nil && e.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && e.Date.After(*filters.EndDate) {
				continue
			}
			if filters.CategoryID != nil && e.CategoryID != *filters.CategoryID {
				continue
			}
		}
		result = append(result, m.withCategory(e))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// MockSummaryRepository is a mock implementation of domain.SummaryRepository
type MockSummaryRepository struct {
	Expenses      map[uuid.UUID][]domain.ExpenseRow
	Categories    map[uuid.UUID][]domain.CategoryRef
	GetSnapshotFn func(userID uuid.UUID, startDate, endDate time.Time) (*domain.ExpenseSnapshot, error)
	Calls         int
}

// NewMockSummaryRepository creates a new MockSummaryRepository
func NewMockSummaryRepository() *MockSummaryRepository {
	return &MockSummaryRepository{
		Expenses:   make(map[uuid.UUID][]domain.ExpenseRow),
		Categories: make(map[uuid.UUID][]domain.CategoryRef),
	}
}

// GetSnapshot returns the user's expenses within the inclusive range and all their categories
func (m *MockSummaryRepository) GetSnapshot(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (*domain.ExpenseSnapshot, error) {
	m.Calls++
	if m.GetSnapshotFn != nil {
		return m.GetSnapshotFn(userID, startDate, endDate)
	}
	snapshot := &domain.ExpenseSnapshot{
		Expenses:   make([]domain.ExpenseRow, 0),
		Categories: append([]domain.CategoryRef(nil), m.Categories[userID]...),
	}
	for _, row := range m.Expenses[userID] {
		if row.Date.Before(startDate) || row.Date.After(endDate) {
			continue
		}
		snapshot.Expenses = append(snapshot.Expenses, row)
	}
	return snapshot, nil
}

// AddCategory registers a category for the user (helper for tests)
func (m *MockSummaryRepository) AddCategory(userID uuid.UUID, id int32, name, color string) {
	m.Categories[userID] = append(m.Categories[userID], domain.CategoryRef{ID: id, Name: name, Color: color})
}

// AddExpense registers an expense row for the user (helper for tests)
func (m *MockSummaryRepository) AddExpense(userID uuid.UUID, categoryID int32, amount string, date time.Time) {
	rows := m.Expenses[userID]
	m.Expenses[userID] = append(rows, domain.ExpenseRow{
		ID:         int32(len(rows) + 1),
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	})
}

// MockObjectStorage is an in-memory implementation of storage.ObjectStorage
type MockObjectStorage struct {
	Objects   map[string][]byte
	Types     map[string]string
	UploadErr error
	DeleteErr error
	Deleted   []string
}

// NewMockObjectStorage creates a new MockObjectStorage
func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

// Upload stores the object under its key
func (m *MockObjectStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.Objects[key] = buf.Bytes()
	m.Types[key] = contentType
	return key, nil
}

// Delete removes the object
func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// GeneratePresignedURL returns a fake signed URL for the key
func (m *MockObjectStorage) GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(expiry.Seconds())), nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish implements websocket.EventPublisher
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the type of every published event in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
