package db

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clinicbook/internal/model"
)

// fixtureUser pairs a user with its plaintext fixture password so seeding can
// hash it at insert time.
type fixtureUser struct {
	user     model.User
	password string
}

func fixtureUsers() []fixtureUser {
	return []fixtureUser{
		{
			user: model.User{
				Username: "admin",
				Name:     "Administrator",
				Role:     model.RoleAdmin,
				Email:    "admin@csu.local",
			},
			password: "admin123",
		},
		{
			user: model.User{
				Username: "kylle",
				Name:     "Kylle Cruz",
				Role:     model.RoleClient,
				Email:    "kylle.mercado@csu.local",
				Phone:    "+639669474682",
			},
			password: "kylle123",
		},
		{
			user: model.User{
				Username: "drsantos",
				Name:     "Dr. Santos",
				Role:     model.RoleDentist,
				Email:    "dr.santos@csu.local",
				Phone:    "+639669474683",
			},
			password: "drpass",
		},
		{
			user: model.User{
				Username: "drreyes",
				Name:     "Dr. Reyes",
				Role:     model.RolePhysician,
				Email:    "dr.reyes@csu.local",
				Phone:    "+639669474684",
			},
			password: "drpass",
		},
	}
}

func fixtureAppointments() []model.Appointment {
	return []model.Appointment{
		{
			ID:           "A-1001",
			PatientName:  "Kylle Cruz",
			PatientEmail: "kylle.mercado@csu.local",
			PatientPhone: "+639669474682",
			ProviderRole: model.RoleDentist,
			ProviderName: "Dr. Santos",
			Date:         "2025-12-03",
			Time:         "09:00",
			Status:       model.StatusScheduled,
		},
		{
			ID:           "A-1002",
			PatientName:  "Kim Mongado",
			PatientEmail: "kim.mongado@csu.local",
			PatientPhone: "+639669474685",
			ProviderRole: model.RolePhysician,
			ProviderName: "Dr. Reyes",
			Date:         "2025-12-04",
			Time:         "10:30",
			Status:       model.StatusScheduled,
		},
	}
}

// SeedFixtures inserts the sample users and appointments when the respective
// tables are empty. Returns the number of created rows.
func SeedFixtures(gormDB *gorm.DB) (int, error) {
	created := 0

	var userCount int64
	if err := gormDB.Model(&model.User{}).Count(&userCount).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if userCount == 0 {
		for _, f := range fixtureUsers() {
			hash, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
			if err != nil {
				return created, fmt.Errorf("hash fixture password: %w", err)
			}
			u := f.user
			u.PasswordHash = string(hash)
			if err := gormDB.Create(&u).Error; err != nil {
				return created, fmt.Errorf("seed user %s: %w", u.Username, err)
			}
			created++
		}
	}

	var apptCount int64
	if err := gormDB.Model(&model.Appointment{}).Count(&apptCount).Error; err != nil {
		return created, fmt.Errorf("count appointments: %w", err)
	}
	if apptCount == 0 {
		for _, a := range fixtureAppointments() {
			appt := a
			if err := gormDB.Create(&appt).Error; err != nil {
				return created, fmt.Errorf("seed appointment %s: %w", appt.ID, err)
			}
			created++
		}
	}

	return created, nil
}
