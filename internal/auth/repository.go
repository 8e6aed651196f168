// internal/auth/repository.go
// Repository pattern isolates database queries from business logic.

package auth

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/lib/pq"
)

// Repository defines all database operations for auth.
type Repository interface {
    // User operations
    CreateUser(ctx context.Context, user *User) error
    GetUserByID(ctx context.Context, id int64) (*User, error)
    GetUserByEmail(ctx context.Context, email string) (*User, error)
    UpdateUser(ctx context.Context, user *User) error

    // Validation helpers
    IsEmailTaken(ctx context.Context, email string) (bool, error)

    // Session operations
    CreateSession(ctx context.Context, session *Session) error
    GetSessionByToken(ctx context.Context, token string) (*Session, error)
    GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
    DeleteSessionByToken(ctx context.Context, token string) error
    DeleteUserSessions(ctx context.Context, userID int64) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
    db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) Repository {
    return &postgresRepository{db: db}
}

// CreateUser inserts a new user into the database
func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
    query := `
        INSERT INTO users (email, password_hash, provider, provider_id, is_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

    err := r.db.QueryRowContext(
        ctx,
        query,
        user.Email,
        user.PasswordHash,
        user.Provider,
        user.ProviderID,
        user.IsVerified,
        user.CreatedAt,
        user.UpdatedAt,
    ).Scan(&user.ID)

    if err != nil {
        if pgErr, ok := err.(*pq.Error); ok {
            if pgErr.Code == "23505" { // unique_violation
                return ErrEmailAlreadyExists
            }
        }
        return fmt.Errorf("failed to create user: %w", err)
    }

    return nil
}

// GetUserByID retrieves a user by their ID
func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
    query := `
        SELECT id, email, password_hash, provider, provider_id, is_verified, created_at, updated_at
        FROM users
        WHERE id = $1`

    return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by their email
func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
    query := `
        SELECT id, email, password_hash, provider, provider_id, is_verified, created_at, updated_at
        FROM users
        WHERE LOWER(email) = LOWER($1)`

    // LOWER() for case-insensitive comparison
    return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresRepository) scanUser(row *sql.Row) (*User, error) {
    var user User
    var passwordHash, providerID sql.NullString

    err := row.Scan(
        &user.ID,
        &user.Email,
        &passwordHash,
        &user.Provider,
        &providerID,
        &user.IsVerified,
        &user.CreatedAt,
        &user.UpdatedAt,
    )

    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, fmt.Errorf("failed to get user: %w", err)
    }

    if passwordHash.Valid {
        user.PasswordHash = &passwordHash.String
    }
    if providerID.Valid {
        user.ProviderID = &providerID.String
    }

    return &user, nil
}

// UpdateUser updates user information
func (r *postgresRepository) UpdateUser(ctx context.Context, user *User) error {
    query := `
        UPDATE users
        SET email = $1, password_hash = $2, provider = $3, provider_id = $4,
            is_verified = $5, updated_at = $6
        WHERE id = $7`

    _, err := r.db.ExecContext(
        ctx,
        query,
        user.Email,
        user.PasswordHash,
        user.Provider,
        user.ProviderID,
        user.IsVerified,
        time.Now(),
        user.ID,
    )

    if err != nil {
        return fmt.Errorf("failed to update user: %w", err)
    }

    return nil
}

// IsEmailTaken checks if an email is already registered
func (r *postgresRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
    var exists bool
    query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

    err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
    if err != nil {
        return false, fmt.Errorf("failed to check email: %w", err)
    }

    return exists, nil
}

// CreateSession creates a new session
func (r *postgresRepository) CreateSession(ctx context.Context, session *Session) error {
    query := `
        INSERT INTO sessions (user_id, token, refresh_token, device_info, ip_address, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

    err := r.db.QueryRowContext(
        ctx,
        query,
        session.UserID,
        session.Token,
        session.RefreshToken,
        session.DeviceInfo,
        session.IPAddress,
        session.ExpiresAt,
        session.CreatedAt,
    ).Scan(&session.ID)

    if err != nil {
        return fmt.Errorf("failed to create session: %w", err)
    }

    return nil
}

// GetSessionByToken retrieves a session by access token
func (r *postgresRepository) GetSessionByToken(ctx context.Context, token string) (*Session, error) {
    session := &Session{}
    query := `
        SELECT id, user_id, token, refresh_token, device_info, ip_address, expires_at, created_at
        FROM sessions
        WHERE token = $1 AND expires_at > NOW()`

    err := r.db.QueryRowContext(ctx, query, token).Scan(
        &session.ID,
        &session.UserID,
        &session.Token,
        &session.RefreshToken,
        &session.DeviceInfo,
        &session.IPAddress,
        &session.ExpiresAt,
        &session.CreatedAt,
    )

    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("session not found or expired")
    }
    if err != nil {
        return nil, fmt.Errorf("failed to get session: %w", err)
    }

    return session, nil
}

// GetSessionByRefreshToken retrieves a session by refresh token
func (r *postgresRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
    session := &Session{}
    query := `
        SELECT id, user_id, token, refresh_token, device_info, ip_address, expires_at, created_at
        FROM sessions
        WHERE refresh_token = $1`

    err := r.db.QueryRowContext(ctx, query, refreshToken).Scan(
        &session.ID,
        &session.UserID,
        &session.Token,
        &session.RefreshToken,
        &session.DeviceInfo,
        &session.IPAddress,
        &session.ExpiresAt,
        &session.CreatedAt,
    )

    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("session not found")
    }
    if err != nil {
        return nil, fmt.Errorf("failed to get session: %w", err)
    }

    return session, nil
}

// DeleteSessionByToken deletes a session by token (for logout)
func (r *postgresRepository) DeleteSessionByToken(ctx context.Context, token string) error {
    query := `DELETE FROM sessions WHERE token = $1`

    _, err := r.db.ExecContext(ctx, query, token)
    if err != nil {
        return fmt.Errorf("failed to delete session: %w", err)
    }

    return nil
}

// DeleteUserSessions deletes all sessions for a user (logout from all devices)
func (r *postgresRepository) DeleteUserSessions(ctx context.Context, userID int64) error {
    query := `DELETE FROM sessions WHERE user_id = $1`

    _, err := r.db.ExecContext(ctx, query, userID)
    if err != nil {
        return fmt.Errorf("failed to delete user sessions: %w", err)
    }

    return nil
}
