// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"

	"github.com/coha-app/coha-backend/internal/auth"
)

// RegisterRoutes registers all profile routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Profile
	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/profile/setup", handler.SetupProfile).Methods("POST")
	api.HandleFunc("/users/{id}/profile", handler.GetUserProfile).Methods("GET")

	// Avatar
	api.HandleFunc("/profile/avatar", handler.UploadAvatar).Methods("POST")
	api.HandleFunc("/profile/avatar", handler.DeleteAvatar).Methods("DELETE")

	// Privacy
	api.HandleFunc("/profile/privacy", handler.UpdatePrivacySettings).Methods("PUT")

	// Universities
	api.HandleFunc("/universities", handler.ListUniversities).Methods("GET")
}
