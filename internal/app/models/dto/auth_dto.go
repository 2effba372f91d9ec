package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginResponse represents successful authentication
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type" example:"bearer"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// VerifyResponse echoes the caller identity behind a token
type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateUserRequest is used by the create-admin command
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role" binding:"omitempty,oneof=admin editor"`
}
