// internal/notifications/models.go

package notifications

import (
    "database/sql/driver"
    "encoding/json"
    "time"
)

// NotificationType distinguishes what event produced a notification.
type NotificationType string

const (
    TypeMatchCreated  NotificationType = "match_created"
    TypeMatchAccepted NotificationType = "match_accepted"
)

// Notification is a persisted in-app notification.
type Notification struct {
    ID        int64            `json:"id" db:"id"`
    UserID    int64            `json:"user_id" db:"user_id"`
    Type      NotificationType `json:"type" db:"type"`
    Title     string           `json:"title" db:"title"`
    Message   string           `json:"message" db:"message"`
    Data      NotificationData `json:"data" db:"data"`
    IsRead    bool             `json:"is_read" db:"is_read"`
    ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
    CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NotificationData holds event-specific payload stored as JSONB.
type NotificationData map[string]interface{}

// Scan implements sql.Scanner
func (nd *NotificationData) Scan(value interface{}) error {
    if value == nil {
        *nd = make(NotificationData)
        return nil
    }

    bytes, ok := value.([]byte)
    if !ok {
        return nil
    }

    return json.Unmarshal(bytes, nd)
}

// Value implements driver.Valuer
func (nd NotificationData) Value() (driver.Value, error) {
    if nd == nil {
        return "{}", nil
    }
    return json.Marshal(nd)
}

// EmailMessage is a single outbound email.
type EmailMessage struct {
    To      string
    Subject string
    Body    string
    HTML    string
}

// SMSMessage is a single outbound text message.
type SMSMessage struct {
    To   string
    Body string
}

// Recipient carries the contact details needed for provider fan-out.
type Recipient struct {
    UserID    int64   `db:"user_id"`
    Email     string  `db:"email"`
    FirstName *string `db:"first_name"`
    Phone     *string `db:"phone"`
}

// NotificationsResponse is the paginated list payload.
type NotificationsResponse struct {
    Notifications []*Notification `json:"notifications"`
    TotalCount    int             `json:"total_count"`
    UnreadCount   int             `json:"unread_count"`
    HasMore       bool            `json:"has_more"`
}
