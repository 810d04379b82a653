package user

import "lms/internal/leave"

// EmployeeStatsResponse is the per-employee leave breakdown.
type EmployeeStatsResponse struct {
	TotalLeaves    int64 `json:"total_leaves"`
	ApprovedLeaves int64 `json:"approved_leaves"`
	PendingLeaves  int64 `json:"pending_leaves"`
	RejectedLeaves int64 `json:"rejected_leaves"`
}

// AdminStatsResponse is the organization-wide dashboard payload. Today's
// leaves appear twice: as a count and as the full records for display.
type AdminStatsResponse struct {
	TotalEmployees     int64                 `json:"total_employees"`
	TotalLeaves        int64                 `json:"total_leaves"`
	PendingLeaves      int64                 `json:"pending_leaves"`
	ApprovedLeaves     int64                 `json:"approved_leaves"`
	RejectedLeaves     int64                 `json:"rejected_leaves"`
	TodayLeaves        int64                 `json:"today_leaves"`
	TodayLeavesDetails []leave.LeaveResponse `json:"today_leaves_details"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employee_id"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	JoiningDate  string `json:"joining_date"`
}
