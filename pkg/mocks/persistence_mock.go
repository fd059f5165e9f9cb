package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
)

// MockUserRepository is a mock implementation of persistence.UserRepository interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

// MockBotRepository is a mock implementation of persistence.BotRepository interface.
type MockBotRepository struct {
	mock.Mock
}

func (m *MockBotRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Bot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Bot), args.Error(1)
}

func (m *MockBotRepository) GetByID(ctx context.Context, id string) (*models.Bot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Bot), args.Error(1)
}

func (m *MockBotRepository) Create(ctx context.Context, bot *models.Bot) error {
	args := m.Called(ctx, bot)

	return args.Error(0)
}

func (m *MockBotRepository) Update(ctx context.Context, bot *models.Bot) error {
	args := m.Called(ctx, bot)

	return args.Error(0)
}

func (m *MockBotRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockFlowRepository is a mock implementation of persistence.FlowRepository interface.
type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) ListByBot(ctx context.Context, botID string) ([]*models.FlowRecord, error) {
	args := m.Called(ctx, botID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.FlowRecord), args.Error(1)
}

func (m *MockFlowRepository) GetByID(ctx context.Context, id string) (*models.FlowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.FlowRecord), args.Error(1)
}

func (m *MockFlowRepository) Create(ctx context.Context, flow *models.FlowRecord) error {
	args := m.Called(ctx, flow)

	return args.Error(0)
}

func (m *MockFlowRepository) Update(ctx context.Context, flow *models.FlowRecord) error {
	args := m.Called(ctx, flow)

	return args.Error(0)
}

func (m *MockFlowRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockTemplateRepository is a mock implementation of persistence.TemplateRepository interface.
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) ListPublic(ctx context.Context) ([]*models.TemplateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.TemplateRecord), args.Error(1)
}

func (m *MockTemplateRepository) GetPublicByID(ctx context.Context, id string) (*models.TemplateRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.TemplateRecord), args.Error(1)
}

func (m *MockTemplateRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}

func (m *MockTemplateRepository) SeedIfEmpty(ctx context.Context, templates []*models.TemplateRecord) (bool, error) {
	args := m.Called(ctx, templates)

	return args.Bool(0), args.Error(1)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	userRepo     *MockUserRepository
	botRepo      *MockBotRepository
	flowRepo     *MockFlowRepository
	templateRepo *MockTemplateRepository
}

// NewMockPersistence creates a new MockPersistence with all mock repositories.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		userRepo:     &MockUserRepository{},
		botRepo:      &MockBotRepository{},
		flowRepo:     &MockFlowRepository{},
		templateRepo: &MockTemplateRepository{},
	}
}

// GetMockUserRepository returns the underlying mock user repository for setting up expectations.
func (m *MockPersistence) GetMockUserRepository() *MockUserRepository {
	return m.userRepo
}

// GetMockBotRepository returns the underlying mock bot repository for setting up expectations.
func (m *MockPersistence) GetMockBotRepository() *MockBotRepository {
	return m.botRepo
}

// GetMockFlowRepository returns the underlying mock flow repository for setting up expectations.
func (m *MockPersistence) GetMockFlowRepository() *MockFlowRepository {
	return m.flowRepo
}

// GetMockTemplateRepository returns the underlying mock template repository for setting up expectations.
func (m *MockPersistence) GetMockTemplateRepository() *MockTemplateRepository {
	return m.templateRepo
}

func (m *MockPersistence) UserRepository() persistence.UserRepository {
	return m.userRepo
}

func (m *MockPersistence) BotRepository() persistence.BotRepository {
	return m.botRepo
}

func (m *MockPersistence) FlowRepository() persistence.FlowRepository {
	return m.flowRepo
}

func (m *MockPersistence) TemplateRepository() persistence.TemplateRepository {
	return m.templateRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
