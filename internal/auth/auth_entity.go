package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the system. Role decides what Authorize lets the
// account do; EmployeeCode is the human-readable badge number (exposed as
// employee_id on the wire), distinct from the uuid primary key that leave
// records reference.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'"`
	Department   string    `gorm:"type:varchar(100);not null"`
	Position     string    `gorm:"type:varchar(100);not null"`
	EmployeeCode string    `gorm:"column:employee_code;type:varchar(50);uniqueIndex;not null"`
	Phone        *string   `gorm:"type:varchar(30)"`
	JoiningDate  time.Time `gorm:"type:date;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
