// internal/notifications/repository.go

package notifications

import (
    "context"
    "database/sql"
    "time"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    CreateNotification(ctx context.Context, notification *Notification) error
    GetUserNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error)
    CountUserNotifications(ctx context.Context, userID int64, unreadOnly bool) (int, error)
    MarkAsRead(ctx context.Context, notificationID, userID int64) error
    MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
    DeleteNotification(ctx context.Context, notificationID, userID int64) error
    DeleteOldNotifications(ctx context.Context, before time.Time) (int64, error)

    GetRecipient(ctx context.Context, userID int64) (*Recipient, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateNotification(ctx context.Context, notification *Notification) error {
    query := `
        INSERT INTO notifications (user_id, type, title, message, data)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

    return r.db.QueryRowContext(ctx, query,
        notification.UserID,
        notification.Type,
        notification.Title,
        notification.Message,
        notification.Data,
    ).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *postgresRepository) GetUserNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
    query := `
        SELECT id, user_id, type, title, message, data, is_read, read_at, created_at
        FROM notifications
        WHERE user_id = $1`

    if unreadOnly {
        query += " AND is_read = false"
    }

    query += " ORDER BY id DESC LIMIT $2 OFFSET $3"

    notifications := []*Notification{}
    if err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset); err != nil {
        return nil, err
    }

    return notifications, nil
}

func (r *postgresRepository) CountUserNotifications(ctx context.Context, userID int64, unreadOnly bool) (int, error) {
    query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
    if unreadOnly {
        query += " AND is_read = false"
    }

    var count int
    err := r.db.GetContext(ctx, &count, query, userID)
    return count, err
}

func (r *postgresRepository) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
    query := `
        UPDATE notifications
        SET is_read = true, read_at = NOW()
        WHERE id = $1 AND user_id = $2 AND is_read = false`

    result, err := r.db.ExecContext(ctx, query, notificationID, userID)
    if err != nil {
        return err
    }

    rows, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if rows == 0 {
        // Distinguish an already-read notification from a missing one.
        var exists bool
        query := `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`
        if err := r.db.GetContext(ctx, &exists, query, notificationID, userID); err != nil {
            return err
        }
        if !exists {
            return ErrNotificationNotFound
        }
    }

    return nil
}

func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
    query := `
        UPDATE notifications
        SET is_read = true, read_at = NOW()
        WHERE user_id = $1 AND is_read = false`

    result, err := r.db.ExecContext(ctx, query, userID)
    if err != nil {
        return 0, err
    }

    return result.RowsAffected()
}

func (r *postgresRepository) DeleteNotification(ctx context.Context, notificationID, userID int64) error {
    query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

    result, err := r.db.ExecContext(ctx, query, notificationID, userID)
    if err != nil {
        return err
    }

    rows, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if rows == 0 {
        return ErrNotificationNotFound
    }

    return nil
}

func (r *postgresRepository) DeleteOldNotifications(ctx context.Context, before time.Time) (int64, error) {
    query := `DELETE FROM notifications WHERE created_at < $1 AND is_read = true`

    result, err := r.db.ExecContext(ctx, query, before)
    if err != nil {
        return 0, err
    }

    return result.RowsAffected()
}

// GetRecipient loads the contact details used for email and SMS fan-out.
// Phone and first name come from the profile when one exists.
func (r *postgresRepository) GetRecipient(ctx context.Context, userID int64) (*Recipient, error) {
    query := `
        SELECT u.id AS user_id, u.email, p.first_name, p.phone
        FROM users u
        LEFT JOIN profiles p ON p.user_id = u.id
        WHERE u.id = $1`

    var recipient Recipient
    err := r.db.GetContext(ctx, &recipient, query, userID)
    if err == sql.ErrNoRows {
        return nil, ErrRecipientNotFound
    }
    if err != nil {
        return nil, err
    }

    return &recipient, nil
}
