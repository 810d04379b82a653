package leave

// Required-ness is validated in the service so missing fields aggregate into
// one message; duration is always derived server-side.
type CreateLeaveRequest struct {
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationUnit string `json:"duration_unit" binding:"omitempty,oneof=days hours"`
	Reason       string `json:"reason"`
}

// UpdateLeaveRequest re-runs every create-time validation against the new
// values; a pending request is replaced wholesale.
type UpdateLeaveRequest struct {
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationUnit string `json:"duration_unit" binding:"omitempty,oneof=days hours"`
	Reason       string `json:"reason"`
}

type ApproveLeaveRequest struct {
	AdminComment *string `json:"admin_comment"`
}

type RejectLeaveRequest struct {
	RejectedReason string  `json:"rejected_reason"`
	AdminComment   *string `json:"admin_comment"`
}

// EmployeeInfo is the denormalized owner identity attached to read views.
type EmployeeInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employee_id"`
	Department   string `json:"department"`
	Position     string `json:"position"`
}

type ReviewerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LeaveResponse struct {
	ID             string        `json:"id"`
	EmployeeID     string        `json:"employee_id"`
	LeaveType      string        `json:"leave_type"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	Duration       float64       `json:"duration"`
	DurationUnit   string        `json:"duration_unit"`
	Reason         string        `json:"reason"`
	Status         string        `json:"status"`
	AdminComment   *string       `json:"admin_comment,omitempty"`
	RejectedReason *string       `json:"rejected_reason,omitempty"`
	AppliedAt      string        `json:"applied_at"`
	ReviewedAt     *string       `json:"reviewed_at,omitempty"`
	Employee       *EmployeeInfo `json:"employee,omitempty"`
	ReviewedBy     *ReviewerInfo `json:"reviewed_by,omitempty"`
}
