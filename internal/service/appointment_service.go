package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clinicbook/internal/cache"
	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/notify"
	"clinicbook/internal/repository"
)

const appointmentCacheTTL = 5 * time.Minute

// AppointmentPatch is a shallow partial update: nil fields keep their prior
// value, set fields overwrite.
type AppointmentPatch struct {
	PatientName  *string `json:"patientName"`
	PatientEmail *string `json:"patientEmail"`
	PatientPhone *string `json:"patientPhone"`
	ProviderRole *string `json:"providerRole"`
	ProviderName *string `json:"providerName"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

// AppointmentService exposes reads, partial updates and deletes over stored
// appointments, and triggers the status-transition notification fan-out.
type AppointmentService interface {
	Get(ctx context.Context, id string) (*model.Appointment, error)
	List(ctx context.Context, filter repository.AppointmentFilter) ([]model.Appointment, error)
	Update(ctx context.Context, id string, patch *AppointmentPatch) (*model.Appointment, error)
	Delete(ctx context.Context, id string) error
}

type appointmentService struct {
	apptRepo repository.AppointmentRepository
	cache    *cache.Client
	notifier notify.Notifier
	tasks    *Background
}

// NewAppointmentService creates an appointment service.
func NewAppointmentService(
	apptRepo repository.AppointmentRepository,
	cacheClient *cache.Client,
	notifier notify.Notifier,
	tasks *Background,
) AppointmentService {
	return &appointmentService{
		apptRepo: apptRepo,
		cache:    cacheClient,
		notifier: notifier,
		tasks:    tasks,
	}
}

func (s *appointmentService) cacheKey(id string) string {
	return "appointment:" + id
}

// Get returns a single appointment, serving repeated reads from cache.
func (s *appointmentService) Get(ctx context.Context, id string) (*model.Appointment, error) {
	var cached model.Appointment
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	appt, err := s.apptRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), appt, appointmentCacheTTL)
	return appt, nil
}

// List returns appointments matching the filter.
func (s *appointmentService) List(ctx context.Context, filter repository.AppointmentFilter) ([]model.Appointment, error) {
	return s.apptRepo.List(ctx, filter)
}

// Update shallow-merges the patch onto the stored record and persists it.
// Status values are checked against the enum and the transition table; the
// merge semantics themselves perform no other validation. When the new
// status is Approved, Confirmed or Rejected the patient notification fan-out
// runs detached after the update is persisted.
func (s *appointmentService) Update(ctx context.Context, id string, patch *AppointmentPatch) (*model.Appointment, error) {
	appt, err := s.apptRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}

	var newStatus model.AppointmentStatus
	statusChanged := false
	if patch.Status != nil {
		parsed, ok := model.ParseStatus(*patch.Status)
		if !ok {
			return nil, errors.ErrInvalidStatus
		}
		if parsed != appt.Status {
			if !appt.Status.CanTransitionTo(parsed) {
				return nil, errors.ErrIllegalTransition
			}
			statusChanged = true
		}
		newStatus = parsed
	}

	applyPatch(appt, patch)

	if err := s.apptRepo.Save(ctx, appt); err != nil {
		return nil, fmt.Errorf("save appointment: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if statusChanged {
		updated := *appt
		s.tasks.Submit(func(taskCtx context.Context) {
			switch newStatus {
			case model.StatusApproved, model.StatusConfirmed:
				s.notifier.AppointmentApproved(taskCtx, &updated)
			case model.StatusRejected:
				s.notifier.AppointmentRejected(taskCtx, &updated, updated.Notes)
			}
		})
	}

	return appt, nil
}

func applyPatch(appt *model.Appointment, patch *AppointmentPatch) {
	if patch.PatientName != nil {
		appt.PatientName = *patch.PatientName
	}
	if patch.PatientEmail != nil {
		appt.PatientEmail = *patch.PatientEmail
	}
	if patch.PatientPhone != nil {
		appt.PatientPhone = *patch.PatientPhone
	}
	if patch.ProviderRole != nil {
		appt.ProviderRole = model.Role(*patch.ProviderRole)
	}
	if patch.ProviderName != nil {
		appt.ProviderName = *patch.ProviderName
	}
	if patch.Date != nil {
		appt.Date = *patch.Date
	}
	if patch.Time != nil {
		appt.Time = *patch.Time
	}
	if patch.Status != nil {
		appt.Status = model.AppointmentStatus(*patch.Status)
	}
	if patch.Notes != nil {
		appt.Notes = *patch.Notes
	}
}

// Delete removes an appointment. A repeat delete for the same id reports
// not-found rather than a second success.
func (s *appointmentService) Delete(ctx context.Context, id string) error {
	rows, err := s.apptRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if rows == 0 {
		return errors.ErrAppointmentNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
