package repository

import (
	"context"

	"gorm.io/gorm"

	"clinicbook/internal/model"
)

// AppointmentFilter narrows appointment listings. Provided fields are ANDed
// together; zero values are ignored.
type AppointmentFilter struct {
	Role         model.Role
	Name         string
	ProviderRole model.Role
	ProviderName string
}

// StatusCount is a count of appointments sharing one status.
type StatusCount struct {
	Status model.AppointmentStatus `json:"status"`
	Count  int64                   `json:"count"`
}

// ProviderStatusCount is a count of appointments per provider and status.
type ProviderStatusCount struct {
	ProviderName string                  `json:"providerName"`
	Status       model.AppointmentStatus `json:"status"`
	Count        int64                   `json:"count"`
}

// AppointmentRepository defines appointment persistence operations.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	Save(ctx context.Context, appt *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountSlotConflicts(ctx context.Context, providerName string, providerRole model.Role, date, timeOfDay, excludeID string) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByProviderStatus(ctx context.Context) ([]ProviderStatusCount, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create creates a new appointment.
func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

// Save persists all fields of an existing appointment.
func (r *appointmentRepository) Save(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

// FindByID finds an appointment by id.
func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	var appt model.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// List returns appointments matching the filter, oldest first.
func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&model.Appointment{})

	if filter.Role == model.RoleClient && filter.Name != "" {
		q = q.Where("patient_name = ?", filter.Name)
	}
	if filter.Role.IsProvider() {
		q = q.Where("provider_role = ?", filter.Role)
	}
	if filter.ProviderRole != "" && filter.ProviderName != "" {
		q = q.Where("provider_role = ? AND provider_name = ?", filter.ProviderRole, filter.ProviderName)
	} else if filter.ProviderRole != "" {
		q = q.Where("provider_role = ?", filter.ProviderRole)
	}

	var appts []model.Appointment
	if err := q.Order("created_at asc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// Delete removes an appointment and reports how many rows were affected, so
// callers can distinguish a delete from a repeat delete.
func (r *appointmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Appointment{})
	return res.RowsAffected, res.Error
}

// CountSlotConflicts counts appointments occupying the same provider slot.
// Cancelled and Rejected appointments do not hold their slot.
func (r *appointmentRepository) CountSlotConflicts(ctx context.Context, providerName string, providerRole model.Role, date, timeOfDay, excludeID string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("provider_name = ? AND provider_role = ? AND date = ? AND time = ?", providerName, providerRole, date, timeOfDay).
		Where("status NOT IN ?", []model.AppointmentStatus{model.StatusCancelled, model.StatusRejected})
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus groups appointment counts by status.
func (r *appointmentRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	if err := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByProviderStatus groups appointment counts by provider and status.
func (r *appointmentRepository) CountByProviderStatus(ctx context.Context) ([]ProviderStatusCount, error) {
	var rows []ProviderStatusCount
	if err := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Select("provider_name, status, count(*) as count").
		Group("provider_name, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
