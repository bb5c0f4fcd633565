package database

import (
	"fmt"
	"math"
	"time"
)

// DashboardStats holds the admin dashboard aggregates
type DashboardStats struct {
	TotalUsers     int     `json:"totalUsers"`
	NewUsers       int     `json:"newUsers"`
	ActiveRides    int     `json:"activeRides"`
	CompletedRides int     `json:"completedRides"`
	TotalRevenue   float64 `json:"totalRevenue"`
	RevenueGrowth  float64 `json:"revenueGrowth"`
	PendingKyc     int     `json:"pendingKyc"`
	VerifiedToday  int     `json:"verifiedToday"`
}

// StatsRepository computes admin dashboard aggregates
type StatsRepository struct {
	db DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetDashboardStats gathers the admin overview numbers. Revenue growth
// compares the current calendar month against the previous one.
func (r *StatsRepository) GetDashboardStats(now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}

	weekAgo := now.AddDate(0, 0, -7)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	if err := r.db.Get(&stats.TotalUsers, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if err := r.db.Get(&stats.NewUsers,
		`SELECT COUNT(*) FROM users WHERE created_at >= $1`, weekAgo); err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}

	if err := r.db.Get(&stats.ActiveRides,
		`SELECT COUNT(*) FROM rides WHERE start_time >= $1`, now); err != nil {
		return nil, fmt.Errorf("failed to count active rides: %w", err)
	}

	if err := r.db.Get(&stats.CompletedRides,
		`SELECT COUNT(*) FROM rides WHERE end_time >= $1 AND end_time < $2`,
		dayStart, dayStart.Add(24*time.Hour)); err != nil {
		return nil, fmt.Errorf("failed to count completed rides: %w", err)
	}

	if err := r.db.Get(&stats.TotalRevenue,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'COMPLETED'`); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	var currentMonth, previousMonth float64
	if err := r.db.Get(&currentMonth,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'COMPLETED' AND created_at >= $1`,
		monthStart); err != nil {
		return nil, fmt.Errorf("failed to sum current month revenue: %w", err)
	}
	if err := r.db.Get(&previousMonth,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'COMPLETED' AND created_at >= $1 AND created_at < $2`,
		prevMonthStart, monthStart); err != nil {
		return nil, fmt.Errorf("failed to sum previous month revenue: %w", err)
	}
	if previousMonth > 0 {
		growth := (currentMonth - previousMonth) / previousMonth * 100
		stats.RevenueGrowth = math.Round(growth*100) / 100
	}

	if err := r.db.Get(&stats.PendingKyc,
		`SELECT COUNT(*) FROM user_kyc WHERE is_verified = FALSE`); err != nil {
		return nil, fmt.Errorf("failed to count pending kyc: %w", err)
	}

	if err := r.db.Get(&stats.VerifiedToday,
		`SELECT COUNT(*) FROM user_kyc WHERE verified_at >= $1 AND verified_at < $2`,
		dayStart, dayStart.Add(24*time.Hour)); err != nil {
		return nil, fmt.Errorf("failed to count verified today: %w", err)
	}

	return stats, nil
}
