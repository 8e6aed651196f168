// internal/messaging/handlers.go

package messaging

import (
    "encoding/json"
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
    return &Handler{
        service: service,
    }
}

// GetMessages returns conversation history for a match
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.ErrorResponse(w, "Invalid match ID", http.StatusBadRequest)
        return
    }

    limit := 50
    if l := r.URL.Query().Get("limit"); l != "" {
        if parsed, err := strconv.Atoi(l); err == nil {
            limit = parsed
        }
    }

    var beforeID int64
    if b := r.URL.Query().Get("before"); b != "" {
        if parsed, err := strconv.ParseInt(b, 10, 64); err == nil {
            beforeID = parsed
        }
    }

    messages, err := h.service.GetMessages(r.Context(), matchID, userID, limit, beforeID)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.SuccessResponse(w, messages, http.StatusOK)
}

// SendMessage posts a message to a match conversation
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.ErrorResponse(w, "Invalid match ID", http.StatusBadRequest)
        return
    }

    var req SendMessageRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    msg, err := h.service.SendMessage(r.Context(), matchID, userID, &req)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.SuccessResponse(w, msg, http.StatusCreated)
}

// MarkRead marks all messages from the other participant as read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
    if err != nil {
        utils.ErrorResponse(w, "Invalid match ID", http.StatusBadRequest)
        return
    }

    count, err := h.service.MarkRead(r.Context(), matchID, userID)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.SuccessResponse(w, map[string]int64{"marked_read": count}, http.StatusOK)
}

// GetUnreadCounts returns per-match unread counts for the caller
func (h *Handler) GetUnreadCounts(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    counts, err := h.service.GetUnreadCounts(r.Context(), userID)
    if err != nil {
        utils.ErrorResponse(w, "Failed to get unread counts", http.StatusInternalServerError)
        return
    }

    utils.SuccessResponse(w, counts, http.StatusOK)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, ErrMatchNotFound):
        utils.ErrorResponse(w, "Match not found", http.StatusNotFound)
    case errors.Is(err, ErrNotParticipant):
        utils.ErrorResponse(w, "Not a participant in this match", http.StatusForbidden)
    case errors.Is(err, ErrMatchNotAccepted):
        utils.ErrorResponse(w, "Chat opens when the match is accepted", http.StatusForbidden)
    default:
        utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
    }
}
