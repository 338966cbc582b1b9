package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

func validBookingRequest() *BookingRequest {
	return &BookingRequest{
		PatientName:  "Kylle",
		PatientEmail: "kylle@example.com",
		PatientPhone: "09669474682",
		ProviderRole: "DENTIST",
		ProviderName: "Dr. Santos",
		Date:         "2025-12-03",
		Time:         "09:00",
	}
}

func drSantos() *model.User {
	return &model.User{
		Username: "drsantos",
		Name:     "Dr. Santos",
		Role:     model.RoleDentist,
		Email:    "santos@example.com",
	}
}

func TestBookingService_Book_Validation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*BookingRequest)
		expectedError error
	}{
		{
			name:          "missing patient name",
			mutate:        func(r *BookingRequest) { r.PatientName = "" },
			expectedError: errors.ErrMissingField,
		},
		{
			name:          "missing date",
			mutate:        func(r *BookingRequest) { r.Date = "" },
			expectedError: errors.ErrMissingField,
		},
		{
			name:          "missing time",
			mutate:        func(r *BookingRequest) { r.Time = "" },
			expectedError: errors.ErrMissingField,
		},
		{
			name:          "missing provider role",
			mutate:        func(r *BookingRequest) { r.ProviderRole = "" },
			expectedError: errors.ErrMissingField,
		},
		{
			name:          "non-provider role",
			mutate:        func(r *BookingRequest) { r.ProviderRole = "CLIENT" },
			expectedError: errors.ErrInvalidRole,
		},
		{
			name:          "unknown role",
			mutate:        func(r *BookingRequest) { r.ProviderRole = "SURGEON" },
			expectedError: errors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockApptRepo := new(MockAppointmentRepository)
			mockCal := new(MockCalendar)
			mockNotifier := new(MockNotifier)
			tasks := NewBackground(1, 4)
			defer tasks.Close()

			svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

			req := validBookingRequest()
			tt.mutate(req)

			appt, err := svc.Book(context.Background(), req)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, appt)
			// Nothing may touch storage before validation passes.
			mockApptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_Book_ProviderNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockApptRepo := new(MockAppointmentRepository)
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(1, 4)
	defer tasks.Close()

	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Nobody", model.RoleDentist).
		Return(nil, gorm.ErrRecordNotFound)

	svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	req := validBookingRequest()
	req.ProviderName = "Dr. Nobody"

	appt, err := svc.Book(context.Background(), req)

	assert.ErrorIs(t, err, errors.ErrProviderNotFound)
	assert.Nil(t, appt)
	mockUserRepo.AssertExpectations(t)
}

func TestBookingService_Book_InvalidSlot(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockApptRepo := new(MockAppointmentRepository)
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(1, 4)
	defer tasks.Close()

	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Santos", model.RoleDentist).
		Return(drSantos(), nil)

	svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	req := validBookingRequest()
	req.Date = "2025-13-40"

	appt, err := svc.Book(context.Background(), req)

	assert.ErrorIs(t, err, errors.ErrInvalidSlot)
	assert.Nil(t, appt)
	mockApptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_Book_LocalConflict(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockApptRepo := new(MockAppointmentRepository)
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(1, 4)
	defer tasks.Close()

	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Santos", model.RoleDentist).
		Return(drSantos(), nil)
	mockApptRepo.On("CountSlotConflicts", mock.Anything, "Dr. Santos", model.RoleDentist, "2025-12-03", "09:00", "").
		Return(int64(1), nil)

	svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	appt, err := svc.Book(context.Background(), validBookingRequest())

	assert.ErrorIs(t, err, errors.ErrSlotConflict)
	assert.Nil(t, appt)
	// The rejected booking leaves no partial state behind.
	mockApptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockCal.AssertNotCalled(t, "IsBusy", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Book_CalendarBusy(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockApptRepo := new(MockAppointmentRepository)
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(1, 4)
	defer tasks.Close()

	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Santos", model.RoleDentist).
		Return(drSantos(), nil)
	mockApptRepo.On("CountSlotConflicts", mock.Anything, "Dr. Santos", model.RoleDentist, "2025-12-03", "09:00", "").
		Return(int64(0), nil)
	mockCal.On("IsBusy", mock.Anything, mock.Anything, mock.Anything).Return(true)

	svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	appt, err := svc.Book(context.Background(), validBookingRequest())

	assert.ErrorIs(t, err, errors.ErrSlotConflict)
	assert.Nil(t, appt)
	mockApptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockCal.AssertExpectations(t)
}

func TestBookingService_Book_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockApptRepo := new(MockAppointmentRepository)
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(1, 4)

	provider := drSantos()
	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Santos", model.RoleDentist).
		Return(provider, nil)
	mockApptRepo.On("CountSlotConflicts", mock.Anything, "Dr. Santos", model.RoleDentist, "2025-12-03", "09:00", "").
		Return(int64(0), nil)
	mockCal.On("IsBusy", mock.Anything, mock.Anything, mock.Anything).Return(false)
	mockApptRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return(nil)

	// Background follow-up: calendar insert, outcome record, provider email.
	mockCal.On("CreateEvent", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return("evt-123", nil)
	mockApptRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return(nil)
	mockNotifier.On("RecordCalendarOutcome", mock.Anything, mock.Anything, "evt-123", nil).Return()
	mockNotifier.On("AppointmentCreated", mock.Anything, mock.AnythingOfType("*model.Appointment"), mock.AnythingOfType("*model.User")).Return()

	svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	appt, err := svc.Book(context.Background(), validBookingRequest())

	assert.NoError(t, err)
	assert.NotNil(t, appt)
	assert.Equal(t, model.StatusScheduled, appt.Status)
	assert.Equal(t, "Dr. Santos", appt.ProviderName)
	assert.Equal(t, model.RoleDentist, appt.ProviderRole)

	// Drain the background queue before asserting the follow-ups.
	tasks.Close()

	mockUserRepo.AssertExpectations(t)
	mockApptRepo.AssertExpectations(t)
	mockCal.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestBookingService_Book_DefaultProvider(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockApptRepo := new(MockAppointmentRepository)
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(1, 4)

	provider := &model.User{
		Username: "drreyes",
		Name:     "Dr. Reyes",
		Role:     model.RolePhysician,
		Email:    "reyes@example.com",
	}
	mockUserRepo.On("FirstProviderByRole", mock.Anything, model.RolePhysician).Return(provider, nil)
	mockApptRepo.On("CountSlotConflicts", mock.Anything, "Dr. Reyes", model.RolePhysician, "2025-12-04", "10:30", "").
		Return(int64(0), nil)
	mockCal.On("IsBusy", mock.Anything, mock.Anything, mock.Anything).Return(false)
	mockApptRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return(nil)
	mockCal.On("CreateEvent", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return("", nil)
	mockNotifier.On("RecordCalendarOutcome", mock.Anything, mock.Anything, "", nil).Return()
	mockNotifier.On("AppointmentCreated", mock.Anything, mock.AnythingOfType("*model.Appointment"), mock.AnythingOfType("*model.User")).Return()

	svc := NewBookingService(mockUserRepo, mockApptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	appt, err := svc.Book(context.Background(), &BookingRequest{
		PatientName:  "Kylle",
		ProviderRole: "PHYSICIAN",
		Date:         "2025-12-04",
		Time:         "10:30",
	})

	assert.NoError(t, err)
	assert.NotNil(t, appt)
	assert.Equal(t, "Dr. Reyes", appt.ProviderName)

	tasks.Close()

	mockUserRepo.AssertExpectations(t)
	mockApptRepo.AssertExpectations(t)
	// No event id was returned, so nothing needed persisting afterwards.
	mockApptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockNotifier.AssertExpectations(t)
}

// memoryApptRepo is an in-memory appointment store. Unlike the stubbed mock,
// its conflict count reflects prior Create calls, so racing bookings observe
// each other's writes.
type memoryApptRepo struct {
	mu    sync.Mutex
	appts []model.Appointment
}

func (r *memoryApptRepo) Create(ctx context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *memoryApptRepo) Save(ctx context.Context, appt *model.Appointment) error { return nil }

func (r *memoryApptRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryApptRepo) List(ctx context.Context, filter repository.AppointmentFilter) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Appointment, len(r.appts))
	copy(out, r.appts)
	return out, nil
}

func (r *memoryApptRepo) Delete(ctx context.Context, id string) (int64, error) { return 0, nil }

func (r *memoryApptRepo) CountSlotConflicts(ctx context.Context, providerName string, providerRole model.Role, date, timeOfDay, excludeID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.appts {
		if a.ProviderName != providerName || a.ProviderRole != providerRole || a.Date != date || a.Time != timeOfDay {
			continue
		}
		if a.Status == model.StatusCancelled || a.Status == model.StatusRejected {
			continue
		}
		count++
	}
	return count, nil
}

func (r *memoryApptRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return nil, nil
}

func (r *memoryApptRepo) CountByProviderStatus(ctx context.Context) ([]repository.ProviderStatusCount, error) {
	return nil, nil
}

func TestBookingService_Book_ConcurrentSameSlot(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	apptRepo := &memoryApptRepo{}
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(2, 16)

	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Santos", model.RoleDentist).
		Return(drSantos(), nil)
	mockCal.On("IsBusy", mock.Anything, mock.Anything, mock.Anything).Return(false)
	mockCal.On("CreateEvent", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return("", nil)
	mockNotifier.On("RecordCalendarOutcome", mock.Anything, mock.Anything, "", nil).Return()
	mockNotifier.On("AppointmentCreated", mock.Anything, mock.AnythingOfType("*model.Appointment"), mock.AnythingOfType("*model.User")).Return()

	svc := NewBookingService(mockUserRepo, apptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	const racers = 8
	var (
		wg        sync.WaitGroup
		succeeded int32
		conflicts int32
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), validBookingRequest())
			switch err {
			case nil:
				atomic.AddInt32(&succeeded, 1)
			case errors.ErrSlotConflict:
				atomic.AddInt32(&conflicts, 1)
			default:
				t.Errorf("unexpected booking error: %v", err)
			}
		}()
	}
	wg.Wait()
	tasks.Close()

	// Exactly one booking wins the slot; the rest are turned away.
	assert.Equal(t, int32(1), atomic.LoadInt32(&succeeded))
	assert.Equal(t, int32(racers-1), atomic.LoadInt32(&conflicts))

	stored, err := apptRepo.List(context.Background(), repository.AppointmentFilter{})
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestBookingService_Book_ConcurrentDistinctProviders(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	apptRepo := &memoryApptRepo{}
	mockCal := new(MockCalendar)
	mockNotifier := new(MockNotifier)
	tasks := NewBackground(2, 16)

	drReyes := &model.User{
		Username: "drreyes",
		Name:     "Dr. Reyes",
		Role:     model.RolePhysician,
		Email:    "reyes@example.com",
	}
	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Santos", model.RoleDentist).
		Return(drSantos(), nil)
	mockUserRepo.On("FindProvider", mock.Anything, "Dr. Reyes", model.RolePhysician).
		Return(drReyes, nil)
	mockCal.On("IsBusy", mock.Anything, mock.Anything, mock.Anything).Return(false)
	mockCal.On("CreateEvent", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return("", nil)
	mockNotifier.On("RecordCalendarOutcome", mock.Anything, mock.Anything, "", nil).Return()
	mockNotifier.On("AppointmentCreated", mock.Anything, mock.AnythingOfType("*model.Appointment"), mock.AnythingOfType("*model.User")).Return()

	svc := NewBookingService(mockUserRepo, apptRepo, mockCal, mockNotifier, tasks, "UTC", zerolog.Nop())

	reqSantos := validBookingRequest()
	reqReyes := validBookingRequest()
	reqReyes.ProviderRole = "PHYSICIAN"
	reqReyes.ProviderName = "Dr. Reyes"

	var wg sync.WaitGroup
	for _, req := range []*BookingRequest{reqSantos, reqReyes} {
		wg.Add(1)
		go func(req *BookingRequest) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), req)
			assert.NoError(t, err)
		}(req)
	}
	wg.Wait()
	tasks.Close()

	// Different providers do not contend for the same slot.
	stored, err := apptRepo.List(context.Background(), repository.AppointmentFilter{})
	assert.NoError(t, err)
	assert.Len(t, stored, 2)
	providers := map[string]bool{}
	for _, a := range stored {
		providers[a.ProviderName] = true
	}
	assert.True(t, providers["Dr. Santos"])
	assert.True(t, providers["Dr. Reyes"])
}
