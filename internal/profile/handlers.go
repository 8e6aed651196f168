// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/coha-app/coha-backend/internal/auth"
	"github.com/coha-app/coha-backend/internal/common/utils"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupProfile handles initial profile creation
func (h *Handler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetupProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.service.SetupProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileExists):
			utils.ErrorResponse(w, "Profile already exists", http.StatusConflict)
		case errors.Is(err, ErrUniversityNotFound):
			utils.ErrorResponse(w, "University not found", http.StatusBadRequest)
		default:
			utils.ErrorResponse(w, "Failed to create profile", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, profile, http.StatusCreated)
}

// GetMyProfile handles getting current user's profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetMyProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// GetUserProfile handles getting another user's profile
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userIDStr := mux.Vars(r)["id"]
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID, viewerID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// UpdateProfile handles profile updates
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		case errors.Is(err, ErrUniversityNotFound):
			utils.ErrorResponse(w, "University not found", http.StatusBadRequest)
		default:
			utils.ErrorResponse(w, "Failed to update profile", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// UploadAvatar handles avatar uploads
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// 10MB in-memory cap for the multipart form
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.ErrorResponse(w, "Avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.service.UploadAvatar(r.Context(), userID, file, header)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidImageFormat):
			utils.ErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		case errors.Is(err, ErrImageTooLarge):
			utils.ErrorResponse(w, "Image too large", http.StatusBadRequest)
		case errors.Is(err, ErrProfileNotFound):
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		default:
			utils.ErrorResponse(w, "Failed to upload avatar", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, map[string]string{"avatar_url": url}, http.StatusOK)
}

// DeleteAvatar handles avatar removal
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteAvatar(r.Context(), userID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to delete avatar", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]string{"message": "Avatar deleted"}, http.StatusOK)
}

// UpdatePrivacySettings handles privacy settings updates
func (h *Handler) UpdatePrivacySettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdatePrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings, err := h.service.UpdatePrivacySettings(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to update privacy settings", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, settings, http.StatusOK)
}

// ListUniversities returns all universities
func (h *Handler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	universities, err := h.service.ListUniversities(r.Context())
	if err != nil {
		utils.ErrorResponse(w, "Failed to list universities", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, universities, http.StatusOK)
}
