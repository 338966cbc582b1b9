package service

import (
	"context"
	"fmt"

	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

// ProviderBreakdown summarizes one provider's appointment outcomes.
type ProviderBreakdown struct {
	ProviderName string `json:"providerName"`
	Approved     int64  `json:"approved"`
	Rejected     int64  `json:"rejected"`
	Scheduled    int64  `json:"scheduled"`
	Other        int64  `json:"other"`
}

// AdminStats is the aggregate view behind the admin dashboard.
type AdminStats struct {
	Total      int64               `json:"total"`
	ByStatus   map[string]int64    `json:"byStatus"`
	ByProvider []ProviderBreakdown `json:"byProvider"`
}

// StatsService aggregates appointment data for the admin dashboard.
type StatsService interface {
	AppointmentStats(ctx context.Context) (*AdminStats, error)
	RecentNotifications(ctx context.Context, limit int) ([]model.NotificationLog, error)
}

type statsService struct {
	apptRepo repository.AppointmentRepository
	logRepo  repository.NotificationLogRepository
}

// NewStatsService creates a stats service.
func NewStatsService(apptRepo repository.AppointmentRepository, logRepo repository.NotificationLogRepository) StatsService {
	return &statsService{apptRepo: apptRepo, logRepo: logRepo}
}

// AppointmentStats returns totals by status and per-provider breakdowns.
func (s *statsService) AppointmentStats(ctx context.Context) (*AdminStats, error) {
	statusCounts, err := s.apptRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	stats := &AdminStats{ByStatus: make(map[string]int64)}
	for _, row := range statusCounts {
		stats.ByStatus[string(row.Status)] = row.Count
		stats.Total += row.Count
	}

	providerCounts, err := s.apptRepo.CountByProviderStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by provider: %w", err)
	}

	byProvider := make(map[string]*ProviderBreakdown)
	order := make([]string, 0)
	for _, row := range providerCounts {
		b, ok := byProvider[row.ProviderName]
		if !ok {
			b = &ProviderBreakdown{ProviderName: row.ProviderName}
			byProvider[row.ProviderName] = b
			order = append(order, row.ProviderName)
		}
		switch row.Status {
		case model.StatusApproved:
			b.Approved += row.Count
		case model.StatusRejected:
			b.Rejected += row.Count
		case model.StatusScheduled:
			b.Scheduled += row.Count
		default:
			b.Other += row.Count
		}
	}
	for _, name := range order {
		stats.ByProvider = append(stats.ByProvider, *byProvider[name])
	}

	return stats, nil
}

// RecentNotifications returns the newest notification log entries.
func (s *statsService) RecentNotifications(ctx context.Context, limit int) ([]model.NotificationLog, error) {
	return s.logRepo.ListRecent(ctx, limit)
}
