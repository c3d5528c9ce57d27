package unit

import (
	"context"
	"time"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) GetBySlug(ctx context.Context, slug string, includeDeleted bool) (*domain.Property, error) {
	args := m.Called(ctx, slug, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyRepo) Search(ctx context.Context, q repository.PropertySearch) ([]domain.Property, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Property), args.Get(1).(int64), args.Error(2)
}
func (m *MockPropertyRepo) IncrementPopularity(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyRepo) AppendPriceChange(ctx context.Context, change *domain.PriceChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}
func (m *MockPropertyRepo) ListPriceHistory(ctx context.Context, propertyID int64) ([]domain.PriceChange, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceChange), args.Error(1)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Application, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) HasPending(ctx context.Context, propertyID int64, identity string) (bool, error) {
	args := m.Called(ctx, propertyID, identity)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes *string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}
func (m *MockApplicationRepo) Accept(ctx context.Context, id, propertyID int64, notes *string) error {
	args := m.Called(ctx, id, propertyID, notes)
	return args.Error(0)
}
func (m *MockApplicationRepo) UpdateDetails(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) ListByProperty(ctx context.Context, propertyID int64, page, pageSize int64) ([]domain.Application, int64, error) {
	args := m.Called(ctx, propertyID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}
func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, identity string, page, pageSize int64) ([]domain.Application, int64, error) {
	args := m.Called(ctx, identity, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}
func (m *MockApplicationRepo) ExpireStale(ctx context.Context, cutoff time.Time, note string) (int64, error) {
	args := m.Called(ctx, cutoff, note)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApplicationReceived(ctx context.Context, landlordEmail, applicantName, propertyTitle string) error {
	args := m.Called(ctx, landlordEmail, applicantName, propertyTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendApplicationAccepted(ctx context.Context, applicantEmail, propertyTitle string) error {
	args := m.Called(ctx, applicantEmail, propertyTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendApplicationRejected(ctx context.Context, applicantEmail, propertyTitle string) error {
	args := m.Called(ctx, applicantEmail, propertyTitle)
	return args.Error(0)
}
