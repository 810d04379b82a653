package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lms/internal/access"
	leaveerrors "lms/internal/leave/errors"
	"lms/internal/shared/apperror"
	"lms/internal/shared/sanitize"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor *access.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, actor *access.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error)
	ListAll(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error)
	ListToday(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error)
	ListActive(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error)
	Approve(ctx context.Context, actor *access.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actor *access.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, actor *access.Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor *access.Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	authz  *access.Authorizer
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, authz *access.Authorizer, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, authz: authz, logger: l}
}

// leaveFields holds a fully validated, sanitized set of request fields with
// the derived duration.
type leaveFields struct {
	leaveType    string
	startDate    time.Time
	endDate      time.Time
	duration     float64
	durationUnit string
	reason       string
}

// validateLeaveFields runs every create-time check: aggregated required
// fields first, then type enum, date format, date-range invariants and reason
// length. Beyond the required-field aggregation the first failure wins. The
// reason is measured raw (trimmed) and only escaped on the way out, so HTML
// entities never pad the length.
func validateLeaveFields(leaveType, startDate, endDate, durationUnit, reason string, today time.Time) (leaveFields, error) {
	reason = strings.TrimSpace(reason)

	if err := apperror.MissingRequired(
		apperror.Field{Name: "leave_type", Value: leaveType},
		apperror.Field{Name: "start_date", Value: startDate},
		apperror.Field{Name: "end_date", Value: endDate},
		apperror.Field{Name: "reason", Value: reason},
	); err != nil {
		return leaveFields{}, err
	}

	if !ValidLeaveType(leaveType) {
		return leaveFields{}, leaveerrors.ErrInvalidLeaveType
	}

	if durationUnit == "" {
		durationUnit = UnitDays
	}
	if !ValidDurationUnit(durationUnit) {
		return leaveFields{}, leaveerrors.ErrInvalidDurationUnit
	}

	start, err := parseDate(startDate)
	if err != nil {
		return leaveFields{}, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return leaveFields{}, err
	}

	if err := ValidateDateRange(start, end, today); err != nil {
		return leaveFields{}, err
	}
	if err := ValidateReason(reason); err != nil {
		return leaveFields{}, err
	}

	return leaveFields{
		leaveType:    leaveType,
		startDate:    start,
		endDate:      end,
		duration:     ComputeDuration(start, end, durationUnit),
		durationUnit: durationUnit,
		reason:       sanitize.Clean(reason),
	}, nil
}

func (s *service) Create(ctx context.Context, actor *access.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionCreateLeave, nil); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Debug("create leave requested",
		zap.String("employee_id", actor.ID.String()),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	now := time.Now().UTC()
	fields, err := validateLeaveFields(req.LeaveType, req.StartDate, req.EndDate, req.DurationUnit, req.Reason, now)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l := &Leave{
		ID:           uuid.New(),
		EmployeeID:   actor.ID,
		LeaveType:    fields.leaveType,
		StartDate:    fields.startDate,
		EndDate:      fields.endDate,
		Duration:     fields.duration,
		DurationUnit: fields.durationUnit,
		Reason:       fields.reason,
		Status:       StatusPending,
		AppliedAt:    now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	created, err := qtx.FindByID(ctx, l.ID.String())
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.ID.String()),
	)

	return MapToResponse(*created), nil
}

func (s *service) GetByID(ctx context.Context, actor *access.Actor, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if err := s.authz.Authorize(actor, access.ActionViewLeave, refOf(l)); err != nil {
		return LeaveResponse{}, err
	}

	return MapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionViewOwnLeaves, nil); err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindByEmployee(ctx, actor.ID.String())
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListAll(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionViewAllLeaves, nil); err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListToday(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error) {
	return s.listActiveOnToday(ctx, actor)
}

// ListActive is the same projection as ListToday; the two call sites are kept
// as distinct operations because clients treat them as different views.
func (s *service) ListActive(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error) {
	return s.listActiveOnToday(ctx, actor)
}

func (s *service) listActiveOnToday(ctx context.Context, actor *access.Actor) ([]LeaveResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionViewTodayLeaves, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	leaves, err := s.repo.FindActiveOn(ctx, today)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Approve(ctx context.Context, actor *access.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionApproveLeave, nil); err != nil {
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	return s.review(ctx, actor, id, map[string]any{
		"status":        StatusApproved,
		"reviewed_by":   actor.ID,
		"reviewed_at":   now,
		"admin_comment": sanitize.CleanPtr(req.AdminComment),
	})
}

func (s *service) Reject(ctx context.Context, actor *access.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionRejectLeave, nil); err != nil {
		return LeaveResponse{}, err
	}

	// Length is checked on the raw trimmed text; escaping only inflates the
	// rune count and would let short reasons slip through.
	rejectedReason := strings.TrimSpace(req.RejectedReason)
	if err := ValidateRejectedReason(rejectedReason); err != nil {
		s.logger.Warn("reject leave validation failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	return s.review(ctx, actor, id, map[string]any{
		"status":          StatusRejected,
		"reviewed_by":     actor.ID,
		"reviewed_at":     now,
		"rejected_reason": sanitize.Clean(rejectedReason),
		"admin_comment":   sanitize.CleanPtr(req.AdminComment),
	})
}

// review performs the shared approve/reject transition. The pre-read gives a
// precise error for records that are missing or already processed; the
// conditional update stays the only write, so two concurrent reviewers can
// both pass the pre-read and still only one will win.
func (s *service) review(ctx context.Context, actor *access.Actor, id string, fields map[string]any) (LeaveResponse, error) {
	targetStatus, _ := fields["status"].(string)
	s.logger.Debug("review leave requested",
		zap.String("leave_id", id),
		zap.String("reviewer_id", actor.ID.String()),
		zap.String("target_status", targetStatus),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	rows, err := qtx.UpdateStatusIfPending(ctx, id, fields)
	if err != nil {
		s.logger.Error("review leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if rows == 0 {
		// Lost the race against a concurrent reviewer.
		s.logger.Warn("review leave lost conditional update",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	reviewed, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("review leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("reviewer_id", actor.ID.String()),
	)

	return MapToResponse(*reviewed), nil
}

func (s *service) Update(ctx context.Context, actor *access.Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID(actor)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if err := s.authz.Authorize(actor, access.ActionEditLeave, refOf(l)); err != nil {
		return LeaveResponse{}, err
	}

	fields, err := validateLeaveFields(req.LeaveType, req.StartDate, req.EndDate, req.DurationUnit, req.Reason, time.Now().UTC())
	if err != nil {
		s.logger.Warn("update leave validation failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	rows, err := qtx.UpdatePendingOwned(ctx, id, actor.ID.String(), map[string]any{
		"leave_type":    fields.leaveType,
		"start_date":    fields.startDate,
		"end_date":      fields.endDate,
		"duration":      fields.duration,
		"duration_unit": fields.durationUnit,
		"reason":        fields.reason,
	})
	if err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if rows == 0 {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success", zap.String("leave_id", id))

	return MapToResponse(*updated), nil
}

func (s *service) Cancel(ctx context.Context, actor *access.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	if err := s.authz.Authorize(actor, access.ActionCancelLeave, refOf(l)); err != nil {
		return err
	}

	rows, err := qtx.DeletePendingOwned(ctx, id, actor.ID.String())
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if rows == 0 {
		return leaveerrors.ErrLeaveNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("cancel leave success",
		zap.String("leave_id", id),
		zap.String("employee_id", actor.ID.String()),
	)
	return nil
}

func refOf(l *Leave) *access.LeaveRef {
	return &access.LeaveRef{
		OwnerID: l.EmployeeID,
		Pending: l.Status == StatusPending,
	}
}

func actorID(actor *access.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.ID.String()
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// MapToResponse converts a stored record into its API shape. Exported so the
// stats views can embed leave records without duplicating the mapping.
func MapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		Duration:       l.Duration,
		DurationUnit:   l.DurationUnit,
		Reason:         l.Reason,
		Status:         l.Status,
		AdminComment:   l.AdminComment,
		RejectedReason: l.RejectedReason,
		AppliedAt:      l.AppliedAt.Format(time.RFC3339),
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	if l.Employee != nil {
		resp.Employee = &EmployeeInfo{
			ID:           l.Employee.ID.String(),
			Name:         l.Employee.Name,
			Email:        l.Employee.Email,
			EmployeeCode: l.Employee.EmployeeCode,
			Department:   l.Employee.Department,
			Position:     l.Employee.Position,
		}
	}
	if l.Reviewer != nil {
		resp.ReviewedBy = &ReviewerInfo{
			Name:  l.Reviewer.Name,
			Email: l.Reviewer.Email,
		}
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = MapToResponse(l)
	}
	return resp
}
