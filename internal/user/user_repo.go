package user

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lms/internal/auth"
)

// LeaveCounts is a status breakdown scanned straight from an aggregate query.
type LeaveCounts struct {
	Total    int64
	Approved int64
	Pending  int64
	Rejected int64
}

// AdminCounts extends LeaveCounts with organization-wide figures.
type AdminCounts struct {
	LeaveCounts
	TotalEmployees int64
	TodayLeaves    int64
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	EmployeeLeaveCounts(ctx context.Context, employeeID string) (LeaveCounts, error)
	OrganizationCounts(ctx context.Context, today time.Time) (AdminCounts, error)
	FindEmployees(ctx context.Context) ([]auth.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// EmployeeLeaveCounts folds the per-status totals into a single scan instead
// of four round trips.
func (r *repository) EmployeeLeaveCounts(ctx context.Context, employeeID string) (LeaveCounts, error) {
	var counts LeaveCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected
		FROM leaves
		WHERE employee_id = ?`, employeeID).
		Scan(&counts).Error
	return counts, err
}

func (r *repository) OrganizationCounts(ctx context.Context, today time.Time) (AdminCounts, error) {
	var counts AdminCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'employee') AS total_employees,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected,
			COALESCE(SUM(CASE WHEN status = 'approved' AND start_date <= ? AND end_date >= ? THEN 1 ELSE 0 END), 0) AS today_leaves
		FROM leaves`, today, today).
		Scan(&counts).Error
	return counts, err
}

func (r *repository) FindEmployees(ctx context.Context) ([]auth.User, error) {
	var users []auth.User
	err := r.db.WithContext(ctx).
		Where("role = ?", "employee").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}
