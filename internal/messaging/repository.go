// internal/messaging/repository.go

package messaging

import (
    "context"
    "fmt"
    "time"

    "github.com/jmoiron/sqlx"
)

type Repository interface {
    CreateMessage(ctx context.Context, msg *Message) error
    GetMessages(ctx context.Context, matchID int64, limit int, beforeID int64) ([]*Message, error)
    MarkMessagesRead(ctx context.Context, matchID, readerID int64) (int64, error)
    GetUnreadCounts(ctx context.Context, userID int64) ([]*UnreadCount, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
    db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

// CreateMessage inserts a message and fills in its ID and timestamp
func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
    query := `
        INSERT INTO messages (match_id, sender_id, content, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

    msg.CreatedAt = time.Now()

    err := r.db.QueryRowContext(ctx, query,
        msg.MatchID,
        msg.SenderID,
        msg.Content,
        msg.CreatedAt,
    ).Scan(&msg.ID)

    if err != nil {
        return fmt.Errorf("failed to create message: %w", err)
    }

    return nil
}

// GetMessages returns messages for a match, newest first. beforeID paginates
// backwards through history; zero means start from the latest message.
func (r *postgresRepository) GetMessages(ctx context.Context, matchID int64, limit int, beforeID int64) ([]*Message, error) {
    query := `
        SELECT id, match_id, sender_id, content, read_at, created_at
        FROM messages
        WHERE match_id = $1`
    args := []interface{}{matchID}

    if beforeID > 0 {
        query += ` AND id < $2`
        args = append(args, beforeID)
    }

    query += fmt.Sprintf(` ORDER BY id DESC LIMIT %d`, limit)

    var messages []*Message
    if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
        return nil, fmt.Errorf("failed to get messages: %w", err)
    }

    return messages, nil
}

// MarkMessagesRead marks all unread messages sent by the other participant
// as read, returning how many were updated.
func (r *postgresRepository) MarkMessagesRead(ctx context.Context, matchID, readerID int64) (int64, error) {
    query := `
        UPDATE messages
        SET read_at = $1
        WHERE match_id = $2 AND sender_id != $3 AND read_at IS NULL`

    result, err := r.db.ExecContext(ctx, query, time.Now(), matchID, readerID)
    if err != nil {
        return 0, fmt.Errorf("failed to mark messages read: %w", err)
    }

    return result.RowsAffected()
}

// GetUnreadCounts returns per-match unread message counts for a user
func (r *postgresRepository) GetUnreadCounts(ctx context.Context, userID int64) ([]*UnreadCount, error) {
    query := `
        SELECT m.match_id, COUNT(*) AS count
        FROM messages m
        JOIN matches mt ON mt.id = m.match_id
        WHERE (mt.user_a_id = $1 OR mt.user_b_id = $1)
          AND m.sender_id != $1
          AND m.read_at IS NULL
        GROUP BY m.match_id`

    var counts []*UnreadCount
    if err := r.db.SelectContext(ctx, &counts, query, userID); err != nil {
        return nil, fmt.Errorf("failed to get unread counts: %w", err)
    }

    return counts, nil
}
