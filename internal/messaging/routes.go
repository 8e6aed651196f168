// internal/messaging/routes.go

package messaging

import (
    "github.com/gorilla/mux"

    "github.com/coha-app/coha-backend/internal/auth"
)

// RegisterRoutes registers all messaging routes
func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, service Service, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/messaging").Subrouter()
    api.Use(authMiddleware.Authenticate)

    // WebSocket endpoint
    api.HandleFunc("/ws", ServeWS(hub, service)).Methods("GET")

    // Conversation history per match
    api.HandleFunc("/matches/{id}/messages", handler.GetMessages).Methods("GET")
    api.HandleFunc("/matches/{id}/messages", handler.SendMessage).Methods("POST")
    api.HandleFunc("/matches/{id}/read", handler.MarkRead).Methods("POST")

    // Unread badge counts
    api.HandleFunc("/unread", handler.GetUnreadCounts).Methods("GET")
}
