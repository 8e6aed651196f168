// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines the profile repository interface
type Repository interface {
	// Profile CRUD
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)
	UpdateAvatar(ctx context.Context, userID int64, url *string) error

	// Settings
	UpdatePrivacySettings(ctx context.Context, userID int64, settings PrivacySettings) error

	// Universities
	ListUniversities(ctx context.Context) ([]*University, error)
	GetUniversityByID(ctx context.Context, id int64) (*University, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateProfile inserts a new profile row
func (r *postgresRepository) CreateProfile(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, university_id, year, major,
		                      gender, bio, phone, instagram, avatar_url, privacy_settings,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.UniversityID,
		profile.Year,
		profile.Major,
		profile.Gender,
		profile.Bio,
		profile.Phone,
		profile.Instagram,
		profile.AvatarURL,
		profile.Privacy,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID)

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" { // unique_violation
				return ErrProfileExists
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return ErrUniversityNotFound
			}
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetProfileByUserID retrieves a profile by user ID
func (r *postgresRepository) GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	query := `
		SELECT p.id, p.user_id, p.first_name, p.last_name, p.university_id,
		       u.name AS university, p.year, p.major, p.gender, p.bio,
		       p.phone, p.instagram, p.avatar_url, p.privacy_settings,
		       p.created_at, p.updated_at
		FROM profiles p
		LEFT JOIN universities u ON u.id = p.university_id
		WHERE p.user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// UpdateProfile applies a partial update and returns the updated profile
func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	setClauses := []string{}
	args := []interface{}{}
	argNum := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if req.FirstName != nil {
		addSet("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		addSet("last_name", *req.LastName)
	}
	if req.UniversityID != nil {
		addSet("university_id", *req.UniversityID)
	}
	if req.Year != nil {
		addSet("year", *req.Year)
	}
	if req.Major != nil {
		addSet("major", *req.Major)
	}
	if req.Gender != nil {
		addSet("gender", *req.Gender)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}
	if req.Phone != nil {
		addSet("phone", *req.Phone)
	}
	if req.Instagram != nil {
		addSet("instagram", *req.Instagram)
	}

	if len(setClauses) == 0 {
		return r.GetProfileByUserID(ctx, userID)
	}

	addSet("updated_at", time.Now())
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d`,
		strings.Join(setClauses, ", "), argNum)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return nil, ErrProfileNotFound
	}

	return r.GetProfileByUserID(ctx, userID)
}

// UpdateAvatar sets or clears the avatar URL
func (r *postgresRepository) UpdateAvatar(ctx context.Context, userID int64, url *string) error {
	query := `UPDATE profiles SET avatar_url = $1, updated_at = $2 WHERE user_id = $3`

	result, err := r.db.ExecContext(ctx, query, url, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// UpdatePrivacySettings replaces the privacy settings JSONB
func (r *postgresRepository) UpdatePrivacySettings(ctx context.Context, userID int64, settings PrivacySettings) error {
	query := `UPDATE profiles SET privacy_settings = $1, updated_at = $2 WHERE user_id = $3`

	result, err := r.db.ExecContext(ctx, query, settings, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update privacy settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ListUniversities returns all universities ordered by name
func (r *postgresRepository) ListUniversities(ctx context.Context) ([]*University, error) {
	var universities []*University
	query := `SELECT id, name, domain, created_at FROM universities ORDER BY name`

	if err := r.db.SelectContext(ctx, &universities, query); err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}

	return universities, nil
}

// GetUniversityByID retrieves a single university
func (r *postgresRepository) GetUniversityByID(ctx context.Context, id int64) (*University, error) {
	var university University
	query := `SELECT id, name, domain, created_at FROM universities WHERE id = $1`

	err := r.db.GetContext(ctx, &university, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to get university: %w", err)
	}

	return &university, nil
}
