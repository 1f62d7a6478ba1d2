package dto

// InviteEmployeeRequest creates a login account for an existing employee and
// mails them a temporary password.
type InviteEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Email      string `json:"email" validate:"required,email"`
}

// InviteEmployeeResponse echoes the created account. TempPassword is only
// present when the mailer runs in mock mode, so local setups still work.
type InviteEmployeeResponse struct {
	UserID       string `json:"user_id"`
	EmployeeID   string `json:"employee_id"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password,omitempty"`
}
