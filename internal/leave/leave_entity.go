package leave

import (
	"time"

	"github.com/google/uuid"

	"lms/internal/auth"
)

// Leave is one time-off request. EmployeeID is a weak reference to the owning
// user; ReviewedBy/ReviewedAt/AdminComment/RejectedReason are unset at
// creation and written exactly once, by the transition that moves the record
// out of pending.
type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType    string    `gorm:"type:varchar(20);not null"`
	StartDate    time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	Duration     float64   `gorm:"type:numeric(6,2);not null"`
	DurationUnit string    `gorm:"type:varchar(10);not null;default:'days'"`
	Reason       string    `gorm:"type:text;not null"`

	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_status"`
	AdminComment   *string    `gorm:"type:text"`
	RejectedReason *string    `gorm:"type:text"`
	AppliedAt      time.Time  `gorm:"not null"`
	ReviewedBy     *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt     *time.Time

	Employee *auth.User `gorm:"foreignKey:EmployeeID"`
	Reviewer *auth.User `gorm:"foreignKey:ReviewedBy"`
}

func (Leave) TableName() string {
	return "leaves"
}
