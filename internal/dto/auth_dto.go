package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Name        string  `json:"name"         validate:"required,min=2,max=100"`
	Email       string  `json:"email"        validate:"required,email"`
	Password    string  `json:"password"     validate:"required"`
	Phone       *string `json:"phone"        validate:"omitempty,max=30"`
	BackupEmail *string `json:"backup_email" validate:"omitempty,email"`
	Role        string  `json:"role"         validate:"omitempty,oneof=staff admin"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	BackupEmail string `json:"backup_email" validate:"omitempty,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
}

type UnlockAccountRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AccountResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	BackupEmail *string `json:"backup_email,omitempty"`
	Role        string  `json:"role"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // seconds
	User        AccountResponse `json:"user"`
}

// Ack is the generic success envelope for operations that must not reveal
// whether an account exists (forgot-password) or that carry no payload.
type Ack struct {
	Message string `json:"message"`
}
