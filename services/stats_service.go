package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gradglobe/counsel-api/model"
	"gorm.io/gorm"
)

// StatsService computes fleet-wide statistics for the admin dashboard.
// Every operation is a read-only point-in-time snapshot and safe to call
// concurrently.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// PlatformStats represents overall platform statistics
type PlatformStats struct {
	TotalUsers              int64 `json:"total_users"`
	TotalApplications       int64 `json:"total_applications"`
	TotalCourses            int64 `json:"total_courses"`
	TotalUniversities       int64 `json:"total_universities"`
	NewUsersThisWeek        int64 `json:"new_users_this_week"`
	NewApplicationsThisWeek int64 `json:"new_applications_this_week"`
	ConversionRate          int   `json:"conversion_rate"`
	FinalConversionRate     int   `json:"final_conversion_rate"`
}

// UserPoint is a raw per-user time-series record
type UserPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ApplicationPoint is a raw per-application time-series record
type ApplicationPoint struct {
	Date   time.Time `json:"date"`
	Count  int       `json:"count"`
	Status string    `json:"status"`
}

// Analytics is the raw per-record series left for the caller to bucket
type Analytics struct {
	Users        []UserPoint        `json:"users"`
	Applications []ApplicationPoint `json:"applications"`
}

// ComputeStats takes a snapshot of the platform counters and funnel
// conversion rates at call time.
func (s *StatsService) ComputeStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if err := db.Model(&model.Application{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	if err := db.Model(&model.Course{}).Count(&stats.TotalCourses).Error; err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	if err := db.Model(&model.University{}).Count(&stats.TotalUniversities).Error; err != nil {
		return nil, fmt.Errorf("failed to count universities: %w", err)
	}

	// Trailing 7x24h window with a strict cutoff; rows without a
	// creation timestamp are excluded.
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)

	if err := db.Model(&model.User{}).
		Where("created_at IS NOT NULL AND created_at >= ?", weekAgo).
		Count(&stats.NewUsersThisWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}

	if err := db.Model(&model.Application{}).
		Where("created_at IS NOT NULL AND created_at >= ?", weekAgo).
		Count(&stats.NewApplicationsThisWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count new applications: %w", err)
	}

	var usersWithApplication int64
	if err := db.Model(&model.Application{}).
		Distinct("user_id").
		Count(&usersWithApplication).Error; err != nil {
		return nil, fmt.Errorf("failed to count applicants: %w", err)
	}

	var usersWithVisaApproval int64
	if err := db.Model(&model.Application{}).
		Where("status = ?", model.ApplicationStatusVisaApproved).
		Distinct("user_id").
		Count(&usersWithVisaApproval).Error; err != nil {
		return nil, fmt.Errorf("failed to count visa approvals: %w", err)
	}

	stats.ConversionRate = roundedPercentage(usersWithApplication, stats.TotalUsers)
	stats.FinalConversionRate = roundedPercentage(usersWithVisaApproval, usersWithApplication)

	return stats, nil
}

// ComputeAnalytics returns one record per user and per application with
// a unit count, leaving any day/week bucketing to the caller.
func (s *StatsService) ComputeAnalytics(ctx context.Context) (*Analytics, error) {
	db := s.db.WithContext(ctx)

	var users []model.User
	if err := db.Select("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load user series: %w", err)
	}

	var applications []model.Application
	if err := db.Select("created_at", "status").Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to load application series: %w", err)
	}

	analytics := &Analytics{
		Users:        make([]UserPoint, 0, len(users)),
		Applications: make([]ApplicationPoint, 0, len(applications)),
	}

	for i := range users {
		analytics.Users = append(analytics.Users, UserPoint{
			Date:  users[i].CreatedAt,
			Count: 1,
		})
	}

	for i := range applications {
		analytics.Applications = append(analytics.Applications, ApplicationPoint{
			Date:   applications[i].CreatedAt,
			Count:  1,
			Status: applications[i].Status,
		})
	}

	return analytics, nil
}

// roundedPercentage rounds half away from zero and returns 0 when the
// denominator is 0.
func roundedPercentage(numerator, denominator int64) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}
