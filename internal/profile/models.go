// internal/profile/models.go

package profile

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Profile represents a student's roommate profile
type Profile struct {
	ID           int64           `json:"id" db:"id"`
	UserID       int64           `json:"user_id" db:"user_id"`
	FirstName    string          `json:"first_name" db:"first_name"`
	LastName     string          `json:"last_name" db:"last_name"`
	UniversityID *int64          `json:"university_id" db:"university_id"`
	University   *string         `json:"university,omitempty" db:"university"`
	Year         *string         `json:"year" db:"year"` // freshman through grad
	Major        *string         `json:"major" db:"major"`
	Gender       *string         `json:"gender" db:"gender"`
	Bio          *string         `json:"bio" db:"bio"`
	Phone        *string         `json:"phone" db:"phone"`
	Instagram    *string         `json:"instagram" db:"instagram"`
	AvatarURL    *string         `json:"avatar_url" db:"avatar_url"`
	Privacy      PrivacySettings `json:"privacy_settings" db:"privacy_settings"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// University represents a school students can belong to
type University struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Domain    *string   `json:"domain,omitempty" db:"domain"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PrivacySettings controls what other students can see
type PrivacySettings struct {
	ShowPhone     bool `json:"show_phone"`
	ShowInstagram bool `json:"show_instagram"`
	ShowBio       bool `json:"show_bio"`
	Discoverable  bool `json:"discoverable"`
}

// DefaultPrivacySettings hides contact details until a match is accepted
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		ShowPhone:     false,
		ShowInstagram: false,
		ShowBio:       true,
		Discoverable:  true,
	}
}

// Scan implements the sql.Scanner interface for PrivacySettings
func (p *PrivacySettings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return nil
}

// Value implements the driver.Valuer interface for PrivacySettings
func (p PrivacySettings) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// SetupProfileRequest represents initial profile creation
type SetupProfileRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=50"`
	LastName     string  `json:"last_name" validate:"required,min=1,max=50"`
	UniversityID int64   `json:"university_id" validate:"required"`
	Year         string  `json:"year" validate:"required,oneof=freshman sophomore junior senior grad"`
	Major        *string `json:"major" validate:"omitempty,max=100"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=male female nonbinary other"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName     *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	UniversityID *int64  `json:"university_id"`
	Year         *string `json:"year" validate:"omitempty,oneof=freshman sophomore junior senior grad"`
	Major        *string `json:"major" validate:"omitempty,max=100"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=male female nonbinary other"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	Phone        *string `json:"phone" validate:"omitempty,e164"`
	Instagram    *string `json:"instagram" validate:"omitempty,max=50"`
}

// UpdatePrivacyRequest represents a privacy settings update
type UpdatePrivacyRequest struct {
	ShowPhone     *bool `json:"show_phone"`
	ShowInstagram *bool `json:"show_instagram"`
	ShowBio       *bool `json:"show_bio"`
	Discoverable  *bool `json:"discoverable"`
}
