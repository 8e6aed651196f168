package matching

import (
    "github.com/gorilla/mux"

    "github.com/coha-app/coha-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/matching").Subrouter()
    api.Use(authMiddleware.Authenticate)

    // Questionnaire & preferences
    api.HandleFunc("/questionnaire", handler.SubmitQuestionnaire).Methods("POST")
    api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")

    // Compatibility & discovery
    api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")
    api.HandleFunc("/discover", handler.Discover).Methods("GET")

    // Matches
    api.HandleFunc("/matches", handler.CreateMatch).Methods("POST")
    api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
    api.HandleFunc("/matches/{id}", handler.GetMatch).Methods("GET")
    api.HandleFunc("/matches/{id}/action", handler.RecordAction).Methods("POST")
}
