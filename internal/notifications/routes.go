// internal/notifications/routes.go

package notifications

import (
    "github.com/gorilla/mux"

    "github.com/coha-app/coha-backend/internal/auth"
)

// RegisterRoutes registers all notification routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/notifications").Subrouter()
    api.Use(authMiddleware.Authenticate)

    api.HandleFunc("", handler.GetNotifications).Methods("GET")
    api.HandleFunc("/read-all", handler.MarkAllAsRead).Methods("POST")
    api.HandleFunc("/{id}/read", handler.MarkAsRead).Methods("POST")
    api.HandleFunc("/{id}", handler.DeleteNotification).Methods("DELETE")
}
