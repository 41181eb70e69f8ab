package auth

import "time"

// User represents a registered account. It is never updated after creation.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the request payload for creating an account. Fields are
// pointers so a missing key can be told apart from an empty string.
type RegisterRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginRequest is the request payload for logging in
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token    string
	UserID   int64
	Username string
}

// LoginResponse is the response after successful authentication
type LoginResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}
