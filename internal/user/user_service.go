package user

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"lms/internal/access"
	"lms/internal/leave"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	MyStats(ctx context.Context, actor *access.Actor) (EmployeeStatsResponse, error)
	AdminStats(ctx context.Context, actor *access.Actor) (AdminStatsResponse, error)
	ListEmployees(ctx context.Context, actor *access.Actor) ([]EmployeeResponse, error)
}

type service struct {
	repo      Repository
	leaveRepo leave.Repository
	authz     *access.Authorizer
	group     singleflight.Group
	logger    *zap.Logger
}

func NewService(repo Repository, leaveRepo leave.Repository, authz *access.Authorizer, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, leaveRepo: leaveRepo, authz: authz, logger: l}
}

func (s *service) MyStats(ctx context.Context, actor *access.Actor) (EmployeeStatsResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionViewOwnStats, nil); err != nil {
		return EmployeeStatsResponse{}, err
	}

	counts, err := s.repo.EmployeeLeaveCounts(ctx, actor.ID.String())
	if err != nil {
		s.logger.Error("employee stats query failed",
			zap.String("employee_id", actor.ID.String()),
			zap.Error(err),
		)
		return EmployeeStatsResponse{}, err
	}

	return EmployeeStatsResponse{
		TotalLeaves:    counts.Total,
		ApprovedLeaves: counts.Approved,
		PendingLeaves:  counts.Pending,
		RejectedLeaves: counts.Rejected,
	}, nil
}

// AdminStats computes the dashboard fresh on each call but collapses a burst
// of concurrent requests into a single round of queries via singleflight.
func (s *service) AdminStats(ctx context.Context, actor *access.Actor) (AdminStatsResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionViewAdminStats, nil); err != nil {
		return AdminStatsResponse{}, err
	}

	v, err, _ := s.group.Do("admin-stats", func() (any, error) {
		return s.buildAdminStats(ctx)
	})
	if err != nil {
		s.logger.Error("admin stats query failed", zap.Error(err))
		return AdminStatsResponse{}, err
	}
	return v.(AdminStatsResponse), nil
}

func (s *service) buildAdminStats(ctx context.Context) (AdminStatsResponse, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts, err := s.repo.OrganizationCounts(ctx, today)
	if err != nil {
		return AdminStatsResponse{}, err
	}

	active, err := s.leaveRepo.FindActiveOn(ctx, today)
	if err != nil {
		return AdminStatsResponse{}, err
	}

	details := make([]leave.LeaveResponse, 0, len(active))
	for _, l := range active {
		details = append(details, leave.MapToResponse(l))
	}

	return AdminStatsResponse{
		TotalEmployees:     counts.TotalEmployees,
		TotalLeaves:        counts.Total,
		PendingLeaves:      counts.Pending,
		ApprovedLeaves:     counts.Approved,
		RejectedLeaves:     counts.Rejected,
		TodayLeaves:        counts.TodayLeaves,
		TodayLeavesDetails: details,
	}, nil
}

func (s *service) ListEmployees(ctx context.Context, actor *access.Actor) ([]EmployeeResponse, error) {
	if err := s.authz.Authorize(actor, access.ActionListEmployees, nil); err != nil {
		return nil, err
	}

	users, err := s.repo.FindEmployees(ctx)
	if err != nil {
		s.logger.Error("employee list query failed", zap.Error(err))
		return nil, err
	}

	resp := make([]EmployeeResponse, len(users))
	for i, u := range users {
		resp[i] = EmployeeResponse{
			ID:           u.ID.String(),
			Name:         u.Name,
			Email:        u.Email,
			EmployeeCode: u.EmployeeCode,
			Department:   u.Department,
			Position:     u.Position,
			JoiningDate:  u.JoiningDate.Format("2006-01-02"),
		}
	}
	return resp, nil
}
