// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrUniversityNotFound = errors.New("university not found")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrImageTooLarge      = errors.New("image size exceeds limit")
)

// Service defines the profile service interface
type Service interface {
	// Profile CRUD
	SetupProfile(ctx context.Context, userID int64, req *SetupProfileRequest) (*Profile, error)
	GetMyProfile(ctx context.Context, userID int64) (*Profile, error)
	GetProfile(ctx context.Context, userID int64, viewerID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)

	// Avatar
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	DeleteAvatar(ctx context.Context, userID int64) error

	// Privacy
	UpdatePrivacySettings(ctx context.Context, userID int64, req *UpdatePrivacyRequest) (*PrivacySettings, error)

	// Universities
	ListUniversities(ctx context.Context) ([]*University, error)
}

// service implements the profile service
type service struct {
	repo          Repository
	uploadService UploadService
	maxAvatarSize int64
}

// NewService creates a new profile service
func NewService(repo Repository, uploadService UploadService, maxAvatarSizeMB int) Service {
	return &service{
		repo:          repo,
		uploadService: uploadService,
		maxAvatarSize: int64(maxAvatarSizeMB) * 1024 * 1024,
	}
}

// SetupProfile creates the initial profile for a user
func (s *service) SetupProfile(ctx context.Context, userID int64, req *SetupProfileRequest) (*Profile, error) {
	// Verify the university exists up front for a clean error
	if _, err := s.repo.GetUniversityByID(ctx, req.UniversityID); err != nil {
		return nil, err
	}

	profile := &Profile{
		UserID:       userID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		UniversityID: &req.UniversityID,
		Year:         &req.Year,
		Major:        req.Major,
		Gender:       req.Gender,
		Bio:          req.Bio,
		Privacy:      DefaultPrivacySettings(),
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	return s.repo.GetProfileByUserID(ctx, userID)
}

// GetMyProfile retrieves the caller's own profile with everything visible
func (s *service) GetMyProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfileByUserID(ctx, userID)
}

// GetProfile retrieves another user's profile with privacy settings applied
func (s *service) GetProfile(ctx context.Context, userID int64, viewerID int64) (*Profile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if userID != viewerID {
		applyPrivacy(profile)
	}

	return profile, nil
}

// applyPrivacy strips fields the owner has chosen to hide
func applyPrivacy(profile *Profile) {
	if !profile.Privacy.ShowPhone {
		profile.Phone = nil
	}
	if !profile.Privacy.ShowInstagram {
		profile.Instagram = nil
	}
	if !profile.Privacy.ShowBio {
		profile.Bio = nil
	}
}

// UpdateProfile applies a partial update
func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	if req.UniversityID != nil {
		if _, err := s.repo.GetUniversityByID(ctx, *req.UniversityID); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateProfile(ctx, userID, req)
}

// allowed avatar extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadAvatar validates and stores a new avatar, replacing any previous one
func (s *service) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", ErrInvalidImageFormat
	}

	if header.Size > s.maxAvatarSize {
		return "", ErrImageTooLarge
	}

	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.uploadService.UploadFile(ctx, file, header, "avatars")
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateAvatar(ctx, userID, &url); err != nil {
		// Clean up the orphaned upload
		s.uploadService.DeleteFile(ctx, url)
		return "", err
	}

	// Remove the old avatar after the new one is stored
	if profile.AvatarURL != nil {
		s.uploadService.DeleteFile(ctx, *profile.AvatarURL)
	}

	return url, nil
}

// DeleteAvatar removes the stored avatar
func (s *service) DeleteAvatar(ctx context.Context, userID int64) error {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateAvatar(ctx, userID, nil); err != nil {
		return err
	}

	if profile.AvatarURL != nil {
		s.uploadService.DeleteFile(ctx, *profile.AvatarURL)
	}

	return nil
}

// UpdatePrivacySettings merges the requested changes into the stored settings
func (s *service) UpdatePrivacySettings(ctx context.Context, userID int64, req *UpdatePrivacyRequest) (*PrivacySettings, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := profile.Privacy
	if req.ShowPhone != nil {
		settings.ShowPhone = *req.ShowPhone
	}
	if req.ShowInstagram != nil {
		settings.ShowInstagram = *req.ShowInstagram
	}
	if req.ShowBio != nil {
		settings.ShowBio = *req.ShowBio
	}
	if req.Discoverable != nil {
		settings.Discoverable = *req.Discoverable
	}

	if err := s.repo.UpdatePrivacySettings(ctx, userID, settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// ListUniversities returns all known universities
func (s *service) ListUniversities(ctx context.Context) ([]*University, error) {
	return s.repo.ListUniversities(ctx)
}
