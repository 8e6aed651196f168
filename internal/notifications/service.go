// internal/notifications/service.go

package notifications

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/coha-app/coha-backend/internal/matching"
)

var (
    ErrNotificationNotFound = errors.New("notification not found")
    ErrRecipientNotFound    = errors.New("recipient not found")
)

const fanOutTimeout = 10 * time.Second

type Service interface {
    GetNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) (*NotificationsResponse, error)
    MarkAsRead(ctx context.Context, notificationID, userID int64) error
    MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
    DeleteNotification(ctx context.Context, notificationID, userID int64) error

    // Match lifecycle events, fanned out to both participants.
    MatchCreated(ctx context.Context, match *matching.Match)
    MatchAccepted(ctx context.Context, match *matching.Match)
}

// Config controls which delivery channels are active beyond in-app.
type Config struct {
    EmailEnabled bool
    SMSEnabled   bool
}

type service struct {
    repo   Repository
    email  EmailProvider
    sms    SMSProvider
    config Config
}

func NewService(repo Repository, email EmailProvider, sms SMSProvider, config Config) Service {
    return &service{
        repo:   repo,
        email:  email,
        sms:    sms,
        config: config,
    }
}

func (s *service) GetNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) (*NotificationsResponse, error) {
    if limit <= 0 || limit > 100 {
        limit = 20
    }
    if offset < 0 {
        offset = 0
    }

    notifications, err := s.repo.GetUserNotifications(ctx, userID, limit, offset, unreadOnly)
    if err != nil {
        return nil, err
    }

    total, err := s.repo.CountUserNotifications(ctx, userID, unreadOnly)
    if err != nil {
        return nil, err
    }

    unread, err := s.repo.CountUserNotifications(ctx, userID, true)
    if err != nil {
        return nil, err
    }

    return &NotificationsResponse{
        Notifications: notifications,
        TotalCount:    total,
        UnreadCount:   unread,
        HasMore:       offset+len(notifications) < total,
    }, nil
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
    return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
    return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) DeleteNotification(ctx context.Context, notificationID, userID int64) error {
    return s.repo.DeleteNotification(ctx, notificationID, userID)
}

// MatchCreated notifies both participants that a pending match now exists.
func (s *service) MatchCreated(ctx context.Context, match *matching.Match) {
    s.notifyParticipants(ctx, match, TypeMatchCreated,
        "New roommate match",
        "You have a new roommate match with %s (%d%% compatible). Open the app to respond.",
        "Coha: new roommate match with %s (%d%% compatible).")
}

// MatchAccepted notifies both participants that the match went mutual.
func (s *service) MatchAccepted(ctx context.Context, match *matching.Match) {
    s.notifyParticipants(ctx, match, TypeMatchAccepted,
        "It's a match!",
        "You and %s (%d%% compatible) both said yes. Chat is now open.",
        "Coha: you and %s matched. Chat is now open.")
}

func (s *service) notifyParticipants(ctx context.Context, match *matching.Match, notificationType NotificationType, title, bodyFormat, smsFormat string) {
    recipientA, errA := s.repo.GetRecipient(ctx, match.UserAID)
    recipientB, errB := s.repo.GetRecipient(ctx, match.UserBID)
    if errA != nil {
        log.Printf("Failed to load recipient %d: %v", match.UserAID, errA)
    }
    if errB != nil {
        log.Printf("Failed to load recipient %d: %v", match.UserBID, errB)
    }

    s.notifyOne(ctx, match, notificationType, title, bodyFormat, smsFormat, recipientA, recipientB)
    s.notifyOne(ctx, match, notificationType, title, bodyFormat, smsFormat, recipientB, recipientA)
}

// notifyOne persists the in-app notification for one participant and fans it
// out to the enabled channels. The other participant only lends their name to
// the message text.
func (s *service) notifyOne(ctx context.Context, match *matching.Match, notificationType NotificationType, title, bodyFormat, smsFormat string, recipient, other *Recipient) {
    if recipient == nil {
        return
    }

    otherID := match.UserAID
    if recipient.UserID == match.UserAID {
        otherID = match.UserBID
    }

    otherName := "your match"
    if other != nil && other.FirstName != nil && *other.FirstName != "" {
        otherName = *other.FirstName
    }

    notification := &Notification{
        UserID:  recipient.UserID,
        Type:    notificationType,
        Title:   title,
        Message: fmt.Sprintf(bodyFormat, otherName, match.CompatibilityScore),
        Data: NotificationData{
            "match_id":            match.ID,
            "other_user_id":       otherID,
            "compatibility_score": match.CompatibilityScore,
        },
    }

    if err := s.repo.CreateNotification(ctx, notification); err != nil {
        log.Printf("Failed to persist notification for user %d: %v", recipient.UserID, err)
        return
    }
    RecordNotificationSent("in_app")

    if s.config.EmailEnabled && s.email != nil && recipient.Email != "" {
        go s.sendEmail(recipient.Email, title, notification.Message)
    }

    if s.config.SMSEnabled && s.sms != nil && recipient.Phone != nil && *recipient.Phone != "" {
        go s.sendSMS(*recipient.Phone, fmt.Sprintf(smsFormat, otherName, match.CompatibilityScore))
    }
}

func (s *service) sendEmail(to, subject, body string) {
    ctx, cancel := context.WithTimeout(context.Background(), fanOutTimeout)
    defer cancel()

    msg := &EmailMessage{To: to, Subject: subject, Body: body}
    if err := s.email.Send(ctx, msg); err != nil {
        return
    }
    RecordNotificationSent("email")
}

func (s *service) sendSMS(to, body string) {
    ctx, cancel := context.WithTimeout(context.Background(), fanOutTimeout)
    defer cancel()

    msg := &SMSMessage{To: to, Body: body}
    if err := s.sms.Send(ctx, msg); err != nil {
        return
    }
    RecordNotificationSent("sms")
}
