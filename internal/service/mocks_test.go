package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindProvider(ctx context.Context, name string, role model.Role) (*model.User, error) {
	args := m.Called(ctx, name, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FirstProviderByRole(ctx context.Context, role model.Role) (*model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListProviders(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockAppointmentRepository is a mock implementation of
// repository.AppointmentRepository.
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appt *model.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter repository.AppointmentFilter) ([]model.Appointment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) CountSlotConflicts(ctx context.Context, providerName string, providerRole model.Role, date, timeOfDay, excludeID string) (int64, error) {
	args := m.Called(ctx, providerName, providerRole, date, timeOfDay, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockAppointmentRepository) CountByProviderStatus(ctx context.Context) ([]repository.ProviderStatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ProviderStatusCount), args.Error(1)
}

// MockNotificationLogRepository is a mock implementation of
// repository.NotificationLogRepository.
type MockNotificationLogRepository struct {
	mock.Mock
}

func (m *MockNotificationLogRepository) Create(ctx context.Context, entry *model.NotificationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockNotificationLogRepository) CreateBatch(ctx context.Context, entries []model.NotificationLog) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockNotificationLogRepository) ListRecent(ctx context.Context, limit int) ([]model.NotificationLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.NotificationLog), args.Error(1)
}

// MockCalendar is a mock implementation of calendar.Service.
type MockCalendar struct {
	mock.Mock
}

func (m *MockCalendar) IsBusy(ctx context.Context, start, end time.Time) bool {
	args := m.Called(ctx, start, end)
	return args.Bool(0)
}

func (m *MockCalendar) CreateEvent(ctx context.Context, appt *model.Appointment) (string, error) {
	args := m.Called(ctx, appt)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AppointmentCreated(ctx context.Context, appt *model.Appointment, provider *model.User) {
	m.Called(ctx, appt, provider)
}

func (m *MockNotifier) AppointmentApproved(ctx context.Context, appt *model.Appointment) {
	m.Called(ctx, appt)
}

func (m *MockNotifier) AppointmentRejected(ctx context.Context, appt *model.Appointment, reason string) {
	m.Called(ctx, appt, reason)
}

func (m *MockNotifier) RecordCalendarOutcome(ctx context.Context, apptID, eventID string, err error) {
	m.Called(ctx, apptID, eventID, err)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, username, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, username, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}
