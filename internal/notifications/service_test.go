package notifications

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/coha-app/coha-backend/internal/matching"
)

// fakeRepository is an in-memory Repository for exercising the service layer
// without a database.
type fakeRepository struct {
    notifications []*Notification
    recipients    map[int64]*Recipient
    nextID        int64
}

func newFakeRepository() *fakeRepository {
    return &fakeRepository{
        recipients: make(map[int64]*Recipient),
        nextID:     1,
    }
}

func (f *fakeRepository) CreateNotification(_ context.Context, n *Notification) error {
    n.ID = f.nextID
    f.nextID++
    n.CreatedAt = time.Now()
    f.notifications = append(f.notifications, n)
    return nil
}

func (f *fakeRepository) GetUserNotifications(_ context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
    var out []*Notification
    for i := len(f.notifications) - 1; i >= 0; i-- {
        n := f.notifications[i]
        if n.UserID != userID {
            continue
        }
        if unreadOnly && n.IsRead {
            continue
        }
        out = append(out, n)
    }
    if offset >= len(out) {
        return []*Notification{}, nil
    }
    out = out[offset:]
    if len(out) > limit {
        out = out[:limit]
    }
    return out, nil
}

func (f *fakeRepository) CountUserNotifications(_ context.Context, userID int64, unreadOnly bool) (int, error) {
    count := 0
    for _, n := range f.notifications {
        if n.UserID != userID {
            continue
        }
        if unreadOnly && n.IsRead {
            continue
        }
        count++
    }
    return count, nil
}

func (f *fakeRepository) MarkAsRead(_ context.Context, notificationID, userID int64) error {
    for _, n := range f.notifications {
        if n.ID == notificationID && n.UserID == userID {
            n.IsRead = true
            return nil
        }
    }
    return ErrNotificationNotFound
}

func (f *fakeRepository) MarkAllAsRead(_ context.Context, userID int64) (int64, error) {
    var count int64
    for _, n := range f.notifications {
        if n.UserID == userID && !n.IsRead {
            n.IsRead = true
            count++
        }
    }
    return count, nil
}

func (f *fakeRepository) DeleteNotification(_ context.Context, notificationID, userID int64) error {
    for i, n := range f.notifications {
        if n.ID == notificationID && n.UserID == userID {
            f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
            return nil
        }
    }
    return ErrNotificationNotFound
}

func (f *fakeRepository) DeleteOldNotifications(_ context.Context, _ time.Time) (int64, error) {
    return 0, nil
}

func (f *fakeRepository) GetRecipient(_ context.Context, userID int64) (*Recipient, error) {
    r, ok := f.recipients[userID]
    if !ok {
        return nil, ErrRecipientNotFound
    }
    return r, nil
}

// chanEmailProvider delivers sent emails on a channel so tests can wait for
// the async fan-out without racing it.
type chanEmailProvider struct {
    sent chan *EmailMessage
}

func (p *chanEmailProvider) Send(_ context.Context, msg *EmailMessage) error {
    p.sent <- msg
    return nil
}

type chanSMSProvider struct {
    sent chan *SMSMessage
}

func (p *chanSMSProvider) Send(_ context.Context, msg *SMSMessage) error {
    p.sent <- msg
    return nil
}

func strPtr(s string) *string { return &s }

func seedRecipients(repo *fakeRepository) {
    repo.recipients[1] = &Recipient{
        UserID:    1,
        Email:     "ada@campus.edu",
        FirstName: strPtr("Ada"),
        Phone:     strPtr("+15550000001"),
    }
    repo.recipients[2] = &Recipient{
        UserID:    2,
        Email:     "ben@campus.edu",
        FirstName: strPtr("Ben"),
    }
}

func testMatch() *matching.Match {
    return &matching.Match{
        ID:                 7,
        UserAID:            1,
        UserBID:            2,
        CompatibilityScore: 83,
        Status:             matching.StatusPending,
    }
}

func TestMatchCreatedPersistsForBothParticipants(t *testing.T) {
    repo := newFakeRepository()
    seedRecipients(repo)
    svc := NewService(repo, nil, nil, Config{})

    svc.MatchCreated(context.Background(), testMatch())

    require.Len(t, repo.notifications, 2)

    forUser1 := repo.notifications[0]
    forUser2 := repo.notifications[1]
    assert.Equal(t, int64(1), forUser1.UserID)
    assert.Equal(t, int64(2), forUser2.UserID)
    assert.Equal(t, TypeMatchCreated, forUser1.Type)
    assert.Equal(t, TypeMatchCreated, forUser2.Type)

    assert.Contains(t, forUser1.Message, "Ben")
    assert.Contains(t, forUser2.Message, "Ada")
    assert.Contains(t, forUser1.Message, "83%")

    assert.Equal(t, int64(7), forUser1.Data["match_id"])
    assert.Equal(t, int64(2), forUser1.Data["other_user_id"])
    assert.Equal(t, int64(1), forUser2.Data["other_user_id"])
}

func TestMatchAcceptedType(t *testing.T) {
    repo := newFakeRepository()
    seedRecipients(repo)
    svc := NewService(repo, nil, nil, Config{})

    svc.MatchAccepted(context.Background(), testMatch())

    require.Len(t, repo.notifications, 2)
    assert.Equal(t, TypeMatchAccepted, repo.notifications[0].Type)
}

func TestMissingRecipientSkipsThatSideOnly(t *testing.T) {
    repo := newFakeRepository()
    repo.recipients[1] = &Recipient{UserID: 1, Email: "ada@campus.edu"}
    svc := NewService(repo, nil, nil, Config{})

    svc.MatchCreated(context.Background(), testMatch())

    require.Len(t, repo.notifications, 1)
    assert.Equal(t, int64(1), repo.notifications[0].UserID)
    // Without a profile name for the other side, a generic placeholder is used.
    assert.Contains(t, repo.notifications[0].Message, "your match")
}

func TestEmailFanOutWhenEnabled(t *testing.T) {
    repo := newFakeRepository()
    seedRecipients(repo)
    email := &chanEmailProvider{sent: make(chan *EmailMessage, 4)}
    svc := NewService(repo, email, nil, Config{EmailEnabled: true})

    svc.MatchCreated(context.Background(), testMatch())

    recipients := map[string]bool{}
    for i := 0; i < 2; i++ {
        select {
        case msg := <-email.sent:
            recipients[msg.To] = true
            assert.Equal(t, "New roommate match", msg.Subject)
        case <-time.After(2 * time.Second):
            t.Fatal("timed out waiting for email fan-out")
        }
    }
    assert.True(t, recipients["ada@campus.edu"])
    assert.True(t, recipients["ben@campus.edu"])
}

func TestSMSFanOutOnlyForUsersWithPhone(t *testing.T) {
    repo := newFakeRepository()
    seedRecipients(repo)
    sms := &chanSMSProvider{sent: make(chan *SMSMessage, 4)}
    svc := NewService(repo, nil, sms, Config{SMSEnabled: true})

    svc.MatchAccepted(context.Background(), testMatch())

    select {
    case msg := <-sms.sent:
        assert.Equal(t, "+15550000001", msg.To)
        assert.Contains(t, msg.Body, "Ben")
    case <-time.After(2 * time.Second):
        t.Fatal("timed out waiting for SMS fan-out")
    }

    // The second participant has no phone number on file.
    select {
    case msg := <-sms.sent:
        t.Fatalf("unexpected SMS to %s", msg.To)
    case <-time.After(100 * time.Millisecond):
    }
}

func TestEmailDisabledSendsNothing(t *testing.T) {
    repo := newFakeRepository()
    seedRecipients(repo)
    email := &chanEmailProvider{sent: make(chan *EmailMessage, 4)}
    svc := NewService(repo, email, nil, Config{EmailEnabled: false})

    svc.MatchCreated(context.Background(), testMatch())

    select {
    case msg := <-email.sent:
        t.Fatalf("unexpected email to %s", msg.To)
    case <-time.After(100 * time.Millisecond):
    }
}

func TestGetNotificationsPagination(t *testing.T) {
    repo := newFakeRepository()
    svc := NewService(repo, nil, nil, Config{})

    for i := 0; i < 5; i++ {
        err := repo.CreateNotification(context.Background(), &Notification{
            UserID: 1,
            Type:   TypeMatchCreated,
            Title:  "New roommate match",
        })
        require.NoError(t, err)
    }

    resp, err := svc.GetNotifications(context.Background(), 1, 2, 0, false)
    require.NoError(t, err)
    assert.Len(t, resp.Notifications, 2)
    assert.Equal(t, 5, resp.TotalCount)
    assert.Equal(t, 5, resp.UnreadCount)
    assert.True(t, resp.HasMore)

    // Newest first.
    assert.Equal(t, int64(5), resp.Notifications[0].ID)

    resp, err = svc.GetNotifications(context.Background(), 1, 2, 4, false)
    require.NoError(t, err)
    assert.Len(t, resp.Notifications, 1)
    assert.False(t, resp.HasMore)
}

func TestMarkAllAsReadAffectsUnreadCount(t *testing.T) {
    repo := newFakeRepository()
    svc := NewService(repo, nil, nil, Config{})

    for i := 0; i < 3; i++ {
        require.NoError(t, repo.CreateNotification(context.Background(), &Notification{UserID: 1}))
    }

    count, err := svc.MarkAllAsRead(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, int64(3), count)

    resp, err := svc.GetNotifications(context.Background(), 1, 10, 0, false)
    require.NoError(t, err)
    assert.Equal(t, 0, resp.UnreadCount)
}
