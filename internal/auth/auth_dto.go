package auth

// Required-ness is checked in the service so all missing fields are reported
// in one aggregated message; binding tags only cover format rules.
type RegisterRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email" binding:"omitempty,email"`
	Password     string  `json:"password"`
	Department   string  `json:"department"`
	Position     string  `json:"position"`
	EmployeeCode string  `json:"employee_id"`
	Phone        *string `json:"phone"`
	Role         string  `json:"role" binding:"omitempty,oneof=employee hr"`
	JoiningDate  string  `json:"joining_date"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	Department   string  `json:"department"`
	Position     string  `json:"position"`
	EmployeeCode string  `json:"employee_id"`
	Phone        *string `json:"phone,omitempty"`
	JoiningDate  string  `json:"joining_date"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token,omitempty"`
}
