// internal/notifications/handlers.go

package notifications

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"

    "github.com/coha-app/coha-backend/internal/auth"
    "github.com/coha-app/coha-backend/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

// GetNotifications lists the authenticated user's notifications.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
        return
    }

    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
    offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
    unreadOnly := r.URL.Query().Get("unread_only") == "true"

    response, err := h.service.GetNotifications(r.Context(), userID, limit, offset, unreadOnly)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get notifications")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, response)
}

// MarkAsRead marks one notification as read.
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
        return
    }

    notificationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
        return
    }

    if err := h.service.MarkAsRead(r.Context(), notificationID, userID); err != nil {
        if errors.Is(err, ErrNotificationNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark as read")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, map[string]string{
        "message": "Notification marked as read",
    })
}

// MarkAllAsRead marks every unread notification as read.
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
        return
    }

    count, err := h.service.MarkAllAsRead(r.Context(), userID)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark all as read")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, map[string]int64{
        "marked_read": count,
    })
}

// DeleteNotification removes one of the user's notifications.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
        return
    }

    notificationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
        return
    }

    if err := h.service.DeleteNotification(r.Context(), notificationID, userID); err != nil {
        if errors.Is(err, ErrNotificationNotFound) {
            utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete notification")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, map[string]string{
        "message": "Notification deleted",
    })
}
