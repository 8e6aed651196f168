// internal/messaging/models.go

package messaging

import (
    "encoding/json"
    "time"
)

// Message represents a chat message scoped to a match
type Message struct {
    ID        int64      `json:"id" db:"id"`
    MatchID   int64      `json:"match_id" db:"match_id"`
    SenderID  int64      `json:"sender_id" db:"sender_id"`
    Content   string     `json:"content" db:"content"`
    ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
    CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// WSMessage is the envelope for all websocket frames
type WSMessage struct {
    Type      string          `json:"type"`
    Data      json.RawMessage `json:"data"`
    Timestamp time.Time       `json:"timestamp"`
}

type WSMessageType string

const (
    WSTypeMessage    WSMessageType = "message"
    WSTypeTyping     WSMessageType = "typing"
    WSTypeStopTyping WSMessageType = "stop_typing"
    WSTypeRead       WSMessageType = "read"
)

// Request DTOs

type SendMessageRequest struct {
    Content string `json:"content" validate:"required,min=1,max=2000"`
}

// WSSendPayload is the client payload for outgoing messages and typing events
type WSSendPayload struct {
    MatchID int64  `json:"match_id"`
    Content string `json:"content,omitempty"`
}

// UnreadCount reports unread messages for one match
type UnreadCount struct {
    MatchID int64 `json:"match_id" db:"match_id"`
    Count   int   `json:"count" db:"count"`
}
