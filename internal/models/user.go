package models

// LoginRequest represents the credentials sent to the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Message     string `json:"message,omitempty"`
	Username    string `json:"username"`
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
}

// SignupRequest represents a new account registration
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// SignupResponse represents the outcome of a registration
type SignupResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   *int64 `json:"userId"`
	Username string `json:"username"`
}

// ProfileUpdate represents the request to change profile fields
type ProfileUpdate struct {
	Email string `json:"email,omitempty"`
}

// PasswordChange represents the request to change the account password
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserProfile represents the profile returned by the mypage endpoints
type UserProfile struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
