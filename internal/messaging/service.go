// internal/messaging/service.go

package messaging

import (
    "context"
    "errors"

    "github.com/coha-app/coha-backend/internal/matching"
)

var (
    ErrNotParticipant   = errors.New("not a participant in this match")
    ErrMatchNotAccepted = errors.New("match is not accepted")
    ErrMatchNotFound    = errors.New("match not found")
)

// MatchService is the slice of the matching service messaging needs to
// authorize access to a match-scoped conversation.
type MatchService interface {
    GetMatch(ctx context.Context, matchID, userID int64) (*matching.Match, error)
}

type Service interface {
    SendMessage(ctx context.Context, matchID, senderID int64, req *SendMessageRequest) (*Message, error)
    GetMessages(ctx context.Context, matchID, userID int64, limit int, beforeID int64) ([]*Message, error)
    MarkRead(ctx context.Context, matchID, readerID int64) (int64, error)
    GetUnreadCounts(ctx context.Context, userID int64) ([]*UnreadCount, error)

    // Authorize reports the other participant's ID if the user may access
    // the match's conversation.
    Authorize(ctx context.Context, matchID, userID int64) (int64, error)

    // SetHub attaches the websocket hub used to push messages to connected
    // peers. The hub is attached after construction since it needs the
    // service itself.
    SetHub(hub *Hub)
}

type service struct {
    repo    Repository
    matches MatchService
    hub     *Hub
}

// NewService creates a new messaging service
func NewService(repo Repository, matches MatchService) Service {
    return &service{
        repo:    repo,
        matches: matches,
    }
}

func (s *service) SetHub(hub *Hub) {
    s.hub = hub
}

// Authorize checks the match exists, the user is a participant, and chat is
// open. Only accepted matches can message; rejected matches are closed.
func (s *service) Authorize(ctx context.Context, matchID, userID int64) (int64, error) {
    match, err := s.matches.GetMatch(ctx, matchID, userID)
    if err != nil {
        switch {
        case errors.Is(err, matching.ErrMatchNotFound):
            return 0, ErrMatchNotFound
        case errors.Is(err, matching.ErrNotParticipant):
            return 0, ErrNotParticipant
        }
        return 0, err
    }

    if match.Status != matching.StatusAccepted {
        return 0, ErrMatchNotAccepted
    }

    if match.UserAID == userID {
        return match.UserBID, nil
    }
    return match.UserAID, nil
}

// SendMessage persists a message and pushes it to the other participant
func (s *service) SendMessage(ctx context.Context, matchID, senderID int64, req *SendMessageRequest) (*Message, error) {
    recipientID, err := s.Authorize(ctx, matchID, senderID)
    if err != nil {
        return nil, err
    }

    msg := &Message{
        MatchID:  matchID,
        SenderID: senderID,
        Content:  req.Content,
    }

    if err := s.repo.CreateMessage(ctx, msg); err != nil {
        return nil, err
    }

    RecordMessageSent()

    if s.hub != nil {
        s.hub.SendToUser(recipientID, NewWSMessage(WSTypeMessage, msg))
    }

    return msg, nil
}

// GetMessages returns the conversation history for a match
func (s *service) GetMessages(ctx context.Context, matchID, userID int64, limit int, beforeID int64) ([]*Message, error) {
    if _, err := s.Authorize(ctx, matchID, userID); err != nil {
        return nil, err
    }

    if limit <= 0 || limit > 100 {
        limit = 50
    }

    messages, err := s.repo.GetMessages(ctx, matchID, limit, beforeID)
    if err != nil {
        return nil, err
    }
    if messages == nil {
        messages = []*Message{}
    }
    return messages, nil
}

// MarkRead marks the other side's messages as read and notifies them
func (s *service) MarkRead(ctx context.Context, matchID, readerID int64) (int64, error) {
    otherID, err := s.Authorize(ctx, matchID, readerID)
    if err != nil {
        return 0, err
    }

    count, err := s.repo.MarkMessagesRead(ctx, matchID, readerID)
    if err != nil {
        return 0, err
    }

    if count > 0 && s.hub != nil {
        s.hub.SendToUser(otherID, NewWSMessage(WSTypeRead, map[string]int64{
            "match_id":  matchID,
            "reader_id": readerID,
        }))
    }

    return count, nil
}

// GetUnreadCounts returns unread message counts per match
func (s *service) GetUnreadCounts(ctx context.Context, userID int64) ([]*UnreadCount, error) {
    counts, err := s.repo.GetUnreadCounts(ctx, userID)
    if err != nil {
        return nil, err
    }
    if counts == nil {
        counts = []*UnreadCount{}
    }
    return counts, nil
}
