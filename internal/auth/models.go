// internal/auth/models.go
// Data structures for the authentication system.

package auth

import (
    "time"
)

// User represents an account in the system.
// Using SERIAL (int64) for ID instead of UUID for better performance.
type User struct {
    ID           int64     `json:"id" db:"id"`
    Email        string    `json:"email" db:"email"`
    PasswordHash *string   `json:"-" db:"password_hash"` // Nullable for OAuth users
    Provider     string    `json:"provider" db:"provider"` // 'local' or 'google'
    ProviderID   *string   `json:"provider_id,omitempty" db:"provider_id"`
    IsVerified   bool      `json:"is_verified" db:"is_verified"`
    CreatedAt    time.Time `json:"created_at" db:"created_at"`
    UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session represents an active user session.
// Sessions live in the database for multi-device support.
type Session struct {
    ID           int64     `json:"id" db:"id"`
    UserID       int64     `json:"user_id" db:"user_id"`
    Token        string    `json:"token" db:"token"`
    RefreshToken string    `json:"refresh_token" db:"refresh_token"`
    DeviceInfo   *string   `json:"device_info" db:"device_info"`
    IPAddress    *string   `json:"ip_address" db:"ip_address"`
    ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
    CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SignupRequest is what the client sends to create an account.
type SignupRequest struct {
    Email           string `json:"email" validate:"required,email"`
    Password        string `json:"password" validate:"required,min=8,max=100"`
    ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SigninRequest for email/password login.
type SigninRequest struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required"`
}

// GoogleAuthRequest for OAuth signin/signup.
type GoogleAuthRequest struct {
    IDToken string `json:"id_token" validate:"required"` // Google ID token from frontend
}

// RefreshTokenRequest to get a new access token.
type RefreshTokenRequest struct {
    RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is what we send back after successful authentication.
type AuthResponse struct {
    User         *User  `json:"user"`
    AccessToken  string `json:"access_token"`
    RefreshToken string `json:"refresh_token"`
    ExpiresIn    int    `json:"expires_in"`
    TokenType    string `json:"token_type"`
}
