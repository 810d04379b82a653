package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	FindAll(ctx context.Context) ([]Leave, error)
	FindActiveOn(ctx context.Context, day time.Time) ([]Leave, error)
	UpdateStatusIfPending(ctx context.Context, id string, fields map[string]any) (int64, error)
	UpdatePendingOwned(ctx context.Context, id, employeeID string, fields map[string]any) (int64, error)
	DeletePendingOwned(ctx context.Context, id, employeeID string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		Where("employee_id = ?", employeeID).
		Order("applied_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		Order("applied_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// FindActiveOn returns approved leaves spanning the given day, soonest start
// first. The today and active views share this one query.
func (r *repository) FindActiveOn(ctx context.Context, day time.Time) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

// UpdateStatusIfPending is the single conditional write that resolves
// concurrent review races: the WHERE clause only matches while the record is
// still pending, so at most one transition ever succeeds.
func (r *repository) UpdateStatusIfPending(ctx context.Context, id string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// UpdatePendingOwned filters by owner and pending status in the statement
// itself, as defense in depth behind the service-level authorization check.
func (r *repository) UpdatePendingOwned(ctx context.Context, id, employeeID string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repository) DeletePendingOwned(ctx context.Context, id, employeeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, StatusPending).
		Delete(&Leave{})
	return res.RowsAffected, res.Error
}
