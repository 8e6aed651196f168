// internal/auth/service.go
// Service layer contains all business logic for authentication.

package auth

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/go-redis/redis/v8"
    "golang.org/x/crypto/bcrypt"
    "google.golang.org/api/oauth2/v2"
    "google.golang.org/api/option"

    "github.com/coha-app/coha-backend/internal/common/utils"
)

// Common errors
var (
    ErrUserNotFound       = errors.New("user not found")
    ErrInvalidCredentials = errors.New("invalid credentials")
    ErrEmailAlreadyExists = errors.New("email already exists")
    ErrInvalidToken       = errors.New("invalid token")
)

// Service interface
type Service interface {
    // Registration and authentication
    Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
    Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error)
    GoogleAuth(ctx context.Context, req *GoogleAuthRequest) (*AuthResponse, error)

    // Token management
    RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
    ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)

    // Session management
    Logout(ctx context.Context, token string) error
    LogoutAllDevices(ctx context.Context, userID int64) error

    // User queries
    GetUserByID(ctx context.Context, userID int64) (*User, error)
}

// service implementation
type service struct {
    repo   Repository
    redis  *redis.Client
    config *Config
}

// Config holds service configuration
type Config struct {
    JWTSecret          string
    AccessTokenExpiry  time.Duration
    RefreshTokenExpiry time.Duration
    BCryptCost         int
    GoogleClientID     string
}

// NewService creates a new auth service
func NewService(repo Repository, redis *redis.Client, config *Config) Service {
    return &service{
        repo:   repo,
        redis:  redis,
        config: config,
    }
}

// Signup creates a new user account
func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
    // 1. Validate passwords match
    if req.Password != req.ConfirmPassword {
        return nil, errors.New("passwords do not match")
    }

    // 2. Normalize email
    email := strings.ToLower(strings.TrimSpace(req.Email))

    if taken, err := s.repo.IsEmailTaken(ctx, email); err != nil {
        return nil, fmt.Errorf("failed to check email: %w", err)
    } else if taken {
        return nil, ErrEmailAlreadyExists
    }

    // 3. Hash password
    hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
    if err != nil {
        return nil, fmt.Errorf("failed to hash password: %w", err)
    }
    hashedPasswordStr := string(hashedPassword)

    // 4. Create user
    user := &User{
        Email:        email,
        PasswordHash: &hashedPasswordStr,
        Provider:     "local",
        IsVerified:   false,
        CreatedAt:    time.Now(),
        UpdatedAt:    time.Now(),
    }

    if err := s.repo.CreateUser(ctx, user); err != nil {
        return nil, err
    }

    // 5. Create auth session
    return s.createAuthSession(ctx, user)
}

// Signin authenticates a user with email and password
func (s *service) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
    user, err := s.repo.GetUserByEmail(ctx, req.Email)
    if err != nil {
        return nil, ErrInvalidCredentials
    }

    // OAuth accounts have no password
    if user.PasswordHash == nil {
        return nil, errors.New("this account uses social login")
    }

    if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
        s.recordFailedAttempt(ctx, req.Email)
        return nil, ErrInvalidCredentials
    }

    s.clearFailedAttempts(ctx, req.Email)

    return s.createAuthSession(ctx, user)
}

// GoogleAuth handles Google OAuth signin and signup
func (s *service) GoogleAuth(ctx context.Context, req *GoogleAuthRequest) (*AuthResponse, error) {
    // 1. Verify Google ID token
    oauth2Service, err := oauth2.NewService(ctx, option.WithoutAuthentication())
    if err != nil {
        return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
    }

    tokenInfo, err := oauth2Service.Tokeninfo().IdToken(req.IDToken).Do()
    if err != nil {
        return nil, fmt.Errorf("invalid Google token: %w", err)
    }

    if s.config.GoogleClientID != "" && tokenInfo.Audience != s.config.GoogleClientID {
        return nil, ErrInvalidToken
    }

    // 2. Check if user exists
    user, err := s.repo.GetUserByEmail(ctx, tokenInfo.Email)
    if err != nil {
        // 3. Create new user
        user = &User{
            Email:      strings.ToLower(tokenInfo.Email),
            Provider:   "google",
            ProviderID: &tokenInfo.UserId,
            IsVerified: true, // Google accounts are pre-verified
            CreatedAt:  time.Now(),
            UpdatedAt:  time.Now(),
        }

        if err := s.repo.CreateUser(ctx, user); err != nil {
            return nil, fmt.Errorf("failed to create user: %w", err)
        }
    } else {
        // Link provider info if needed
        if user.Provider == "local" {
            user.Provider = "google"
            user.ProviderID = &tokenInfo.UserId
            s.repo.UpdateUser(ctx, user)
        }
    }

    // 4. Create session
    return s.createAuthSession(ctx, user)
}

// RefreshToken issues a new token pair from a valid refresh token
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
    claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
    if err != nil {
        return nil, ErrInvalidToken
    }

    if claims.Type != "refresh" {
        return nil, ErrInvalidToken
    }

    session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
    if err != nil {
        return nil, ErrInvalidToken
    }

    user, err := s.repo.GetUserByID(ctx, session.UserID)
    if err != nil {
        return nil, err
    }

    return s.createAuthSession(ctx, user)
}

// ValidateToken validates an access token
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
    claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
    if err != nil {
        return nil, ErrInvalidToken
    }

    if claims.Type != "access" {
        return nil, ErrInvalidToken
    }

    // Revoked tokens fail validation until they expire
    if s.isTokenRevoked(ctx, token) {
        return nil, ErrInvalidToken
    }

    return claims, nil
}

// Logout deletes the session and revokes the access token
func (s *service) Logout(ctx context.Context, token string) error {
    s.revokeToken(ctx, token)
    return s.repo.DeleteSessionByToken(ctx, token)
}

// LogoutAllDevices removes every session for a user
func (s *service) LogoutAllDevices(ctx context.Context, userID int64) error {
    return s.repo.DeleteUserSessions(ctx, userID)
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
    return s.repo.GetUserByID(ctx, userID)
}

// Helper functions

func (s *service) createAuthSession(ctx context.Context, user *User) (*AuthResponse, error) {
    accessToken, err := s.generateAccessToken(user)
    if err != nil {
        return nil, fmt.Errorf("failed to generate access token: %w", err)
    }

    refreshToken, err := s.generateRefreshToken(user)
    if err != nil {
        return nil, fmt.Errorf("failed to generate refresh token: %w", err)
    }

    session := &Session{
        UserID:       user.ID,
        Token:        accessToken,
        RefreshToken: refreshToken,
        ExpiresAt:    time.Now().Add(s.config.AccessTokenExpiry),
        CreatedAt:    time.Now(),
    }

    if err := s.repo.CreateSession(ctx, session); err != nil {
        return nil, fmt.Errorf("failed to create session: %w", err)
    }

    return &AuthResponse{
        User:         user,
        AccessToken:  accessToken,
        RefreshToken: refreshToken,
        ExpiresIn:    int(s.config.AccessTokenExpiry.Seconds()),
        TokenType:    "Bearer",
    }, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
    claims := &utils.JWTClaims{
        UserID:    user.ID,
        Email:     user.Email,
        Type:      "access",
        ExpiresAt: time.Now().Add(s.config.AccessTokenExpiry).Unix(),
        IssuedAt:  time.Now().Unix(),
        NotBefore: time.Now().Unix(),
        Issuer:    "coha-backend",
        Subject:   fmt.Sprintf("%d", user.ID),
    }

    return utils.GenerateJWT(claims, s.config.JWTSecret)
}

func (s *service) generateRefreshToken(user *User) (string, error) {
    claims := &utils.JWTClaims{
        UserID:    user.ID,
        Type:      "refresh",
        ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry).Unix(),
        IssuedAt:  time.Now().Unix(),
        NotBefore: time.Now().Unix(),
        Issuer:    "coha-backend",
        Subject:   fmt.Sprintf("%d", user.ID),
    }

    return utils.GenerateJWT(claims, s.config.JWTSecret)
}

func (s *service) revokeToken(ctx context.Context, token string) {
    if s.redis == nil {
        return
    }
    key := fmt.Sprintf("revoked:%s", token)
    s.redis.Set(ctx, key, "1", s.config.AccessTokenExpiry)
}

func (s *service) isTokenRevoked(ctx context.Context, token string) bool {
    if s.redis == nil {
        return false
    }
    key := fmt.Sprintf("revoked:%s", token)
    return s.redis.Exists(ctx, key).Val() > 0
}

func (s *service) recordFailedAttempt(ctx context.Context, identifier string) {
    if s.redis == nil {
        return
    }
    key := fmt.Sprintf("failed:%s", identifier)
    s.redis.Incr(ctx, key)
    s.redis.Expire(ctx, key, 15*time.Minute)
}

func (s *service) clearFailedAttempts(ctx context.Context, identifier string) {
    if s.redis == nil {
        return
    }
    key := fmt.Sprintf("failed:%s", identifier)
    s.redis.Del(ctx, key)
}
