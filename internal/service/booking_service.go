package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinicbook/internal/calendar"
	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/notify"
	"clinicbook/internal/repository"
)

// BookingRequest carries the fields of a booking attempt. PatientName,
// ProviderRole, Date and Time are required; ProviderName falls back to the
// first registered provider of the role.
type BookingRequest struct {
	PatientName  string
	PatientEmail string
	PatientPhone string
	ProviderRole string
	ProviderName string
	Date         string
	Time         string
	Notes        string
}

// BookingService orchestrates the create-appointment workflow.
type BookingService interface {
	Book(ctx context.Context, req *BookingRequest) (*model.Appointment, error)
}

type bookingService struct {
	userRepo repository.UserRepository
	apptRepo repository.AppointmentRepository
	calendar calendar.Service
	notifier notify.Notifier
	tasks    *Background
	loc      *time.Location
	log      zerolog.Logger

	// Per-provider mutexes serialize the check-then-insert so two racing
	// bookings for the same provider cannot both pass the availability
	// checks. Distinct providers proceed in parallel.
	providerMutexes sync.Map
}

// NewBookingService creates a booking service. timeZone is the clinic's IANA
// time zone used to anchor slot instants; unknown zones fall back to UTC.
func NewBookingService(
	userRepo repository.UserRepository,
	apptRepo repository.AppointmentRepository,
	cal calendar.Service,
	notifier notify.Notifier,
	tasks *Background,
	timeZone string,
	log zerolog.Logger,
) BookingService {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		loc = time.UTC
	}
	return &bookingService{
		userRepo: userRepo,
		apptRepo: apptRepo,
		calendar: cal,
		notifier: notifier,
		tasks:    tasks,
		loc:      loc,
		log:      log,
	}
}

func (s *bookingService) getMutex(provider *model.User) *sync.Mutex {
	key := string(provider.Role) + "/" + provider.Name
	value, _ := s.providerMutexes.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Book validates the request, guards the slot, persists the appointment in
// Scheduled status and hands calendar sync plus provider notification to the
// background runner. The returned appointment reflects exactly what was
// persisted; the follow-ups are best-effort.
func (s *bookingService) Book(ctx context.Context, req *BookingRequest) (*model.Appointment, error) {
	if req.PatientName == "" || req.ProviderRole == "" || req.Date == "" || req.Time == "" {
		return nil, errors.ErrMissingField
	}

	role := model.Role(req.ProviderRole)
	if !role.IsProvider() {
		return nil, errors.ErrInvalidRole
	}

	provider, err := s.resolveProvider(ctx, req.ProviderName, role)
	if err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		ProviderRole: role,
		ProviderName: provider.Name,
		Date:         req.Date,
		Time:         req.Time,
		Status:       model.StatusScheduled,
		Notes:        req.Notes,
	}

	start, end, err := appt.Slot(s.loc)
	if err != nil {
		return nil, errors.ErrInvalidSlot
	}

	mutex := s.getMutex(provider)
	mutex.Lock()
	defer mutex.Unlock()

	// No partial state from a rejected booking: both conflict checks run
	// before the first write.
	conflicts, err := s.apptRepo.CountSlotConflicts(ctx, provider.Name, role, req.Date, req.Time, "")
	if err != nil {
		return nil, fmt.Errorf("check local conflicts: %w", err)
	}
	if conflicts > 0 {
		return nil, errors.ErrSlotConflict
	}

	if s.calendar.IsBusy(ctx, start, end) {
		return nil, errors.ErrSlotConflict
	}

	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	created := *appt
	providerCopy := *provider
	s.tasks.Submit(func(taskCtx context.Context) {
		s.afterBooking(taskCtx, created, &providerCopy)
	})

	return appt, nil
}

// afterBooking runs detached from the request: calendar event insert, then
// provider notification. Neither failure undoes the booking.
func (s *bookingService) afterBooking(ctx context.Context, appt model.Appointment, provider *model.User) {
	eventID, err := s.calendar.CreateEvent(ctx, &appt)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment_id", appt.ID).Msg("calendar event creation failed")
	} else if eventID != "" {
		appt.CalendarEventID = eventID
		if saveErr := s.apptRepo.Save(ctx, &appt); saveErr != nil {
			s.log.Warn().Err(saveErr).Str("appointment_id", appt.ID).Msg("persist calendar event id failed")
		}
	}
	s.notifier.RecordCalendarOutcome(ctx, appt.ID, eventID, err)

	s.notifier.AppointmentCreated(ctx, &appt, provider)
}

func (s *bookingService) resolveProvider(ctx context.Context, name string, role model.Role) (*model.User, error) {
	var (
		provider *model.User
		err      error
	)
	if name != "" {
		provider, err = s.userRepo.FindProvider(ctx, name, role)
	} else {
		provider, err = s.userRepo.FirstProviderByRole(ctx, role)
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProviderNotFound
		}
		return nil, fmt.Errorf("resolve provider: %w", err)
	}
	return provider, nil
}
