// internal/auth/handlers.go

package auth

import (
    "encoding/json"
    "net/http"
    "strings"

    "github.com/gorilla/mux"

    "github.com/coha-app/coha-backend/internal/common/utils"
)

// Handler holds dependencies for auth endpoints
type Handler struct {
    service Service
}

// NewHandler creates a new auth handler
func NewHandler(service Service) *Handler {
    return &Handler{
        service: service,
    }
}

// RegisterRoutes registers all auth routes with the router
func (h *Handler) RegisterRoutes(router *mux.Router, middleware *Middleware) {
    authRouter := router.PathPrefix("/api/v1/auth").Subrouter()

    // Public routes
    authRouter.HandleFunc("/signup", h.Signup).Methods("POST")
    authRouter.HandleFunc("/signin", h.Signin).Methods("POST")
    authRouter.HandleFunc("/google", h.GoogleAuth).Methods("POST")
    authRouter.HandleFunc("/refresh", h.RefreshToken).Methods("POST")
    authRouter.HandleFunc("/logout", h.Logout).Methods("POST")

    // Protected routes
    protected := router.PathPrefix("/api/v1/auth").Subrouter()
    protected.Use(middleware.Authenticate)
    protected.HandleFunc("/logout-all", h.LogoutAllDevices).Methods("POST")
    protected.HandleFunc("/me", h.Me).Methods("GET")
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
    var req SignupRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    authResp, err := h.service.Signup(r.Context(), &req)
    if err != nil {
        switch err {
        case ErrEmailAlreadyExists:
            utils.ErrorResponse(w, "Email already registered", http.StatusConflict)
        default:
            utils.ErrorResponse(w, "Failed to create account", http.StatusInternalServerError)
        }
        return
    }

    utils.SuccessResponse(w, authResp, http.StatusCreated)
}

// Signin handles user login
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
    var req SigninRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    authResp, err := h.service.Signin(r.Context(), &req)
    if err != nil {
        switch err {
        case ErrInvalidCredentials:
            utils.ErrorResponse(w, "Invalid email or password", http.StatusUnauthorized)
        default:
            utils.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
        }
        return
    }

    utils.SuccessResponse(w, authResp, http.StatusOK)
}

// GoogleAuth handles Google OAuth
func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
    var req GoogleAuthRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    authResp, err := h.service.GoogleAuth(r.Context(), &req)
    if err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusUnauthorized)
        return
    }

    utils.SuccessResponse(w, authResp, http.StatusOK)
}

// RefreshToken handles token refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
    var req RefreshTokenRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    authResp, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
    if err != nil {
        utils.ErrorResponse(w, "Invalid or expired refresh token", http.StatusUnauthorized)
        return
    }

    utils.SuccessResponse(w, authResp, http.StatusOK)
}

// Logout handles user logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
    authHeader := r.Header.Get("Authorization")
    if authHeader == "" {
        utils.ErrorResponse(w, "Missing authorization header", http.StatusUnauthorized)
        return
    }

    parts := strings.Split(authHeader, " ")
    if len(parts) != 2 || parts[0] != "Bearer" {
        utils.ErrorResponse(w, "Invalid authorization format", http.StatusUnauthorized)
        return
    }

    if err := h.service.Logout(r.Context(), parts[1]); err != nil {
        utils.ErrorResponse(w, "Failed to logout", http.StatusInternalServerError)
        return
    }

    utils.SuccessResponse(w, map[string]string{
        "message": "Logged out successfully",
    }, http.StatusOK)
}

// LogoutAllDevices logs out from all devices
func (h *Handler) LogoutAllDevices(w http.ResponseWriter, r *http.Request) {
    userID, ok := GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    if err := h.service.LogoutAllDevices(r.Context(), userID); err != nil {
        utils.ErrorResponse(w, "Failed to logout from all devices", http.StatusInternalServerError)
        return
    }

    utils.SuccessResponse(w, map[string]string{
        "message": "Logged out from all devices successfully",
    }, http.StatusOK)
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
    userID, ok := GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    user, err := h.service.GetUserByID(r.Context(), userID)
    if err != nil {
        utils.ErrorResponse(w, "User not found", http.StatusNotFound)
        return
    }

    utils.SuccessResponse(w, user, http.StatusOK)
}
