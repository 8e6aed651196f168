// internal/messaging/client.go

package messaging

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"

    "github.com/gorilla/websocket"
)

const (
    // Time allowed to write a message to the peer
    writeWait = 10 * time.Second

    // Time allowed to read the next pong message from the peer
    pongWait = 60 * time.Second

    // Send pings to peer with this period
    pingPeriod = (pongWait * 9) / 10

    // Maximum message size allowed from peer
    maxMessageSize = 64 * 1024 // 64KB
)

// Client represents a websocket client
type Client struct {
    hub     *Hub
    conn    *websocket.Conn
    send    chan []byte
    userID  int64
    service Service

    closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64, service Service) *Client {
    return &Client{
        hub:     hub,
        conn:    conn,
        send:    make(chan []byte, 256),
        userID:  userID,
        service: service,
    }
}

func (c *Client) Start() {
    c.hub.register <- c
    go c.writePump()
    go c.readPump()
}

func (c *Client) Close() {
    c.closeOnce.Do(func() {
        close(c.send)
    })
}

func (c *Client) readPump() {
    defer func() {
        c.hub.unregister <- c
        c.conn.Close()
    }()

    c.conn.SetReadLimit(maxMessageSize)
    c.conn.SetReadDeadline(time.Now().Add(pongWait))
    c.conn.SetPongHandler(func(string) error {
        c.conn.SetReadDeadline(time.Now().Add(pongWait))
        return nil
    })

    for {
        _, message, err := c.conn.ReadMessage()
        if err != nil {
            if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
                log.Printf("WebSocket error: %v", err)
            }
            break
        }

        c.processMessage(message)
    }
}

func (c *Client) writePump() {
    ticker := time.NewTicker(pingPeriod)
    defer func() {
        ticker.Stop()
        c.conn.Close()
    }()

    for {
        select {
        case message, ok := <-c.send:
            c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if !ok {
                c.conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }

            w, err := c.conn.NextWriter(websocket.TextMessage)
            if err != nil {
                return
            }
            w.Write(message)

            // Drain queued messages into the same websocket frame
            n := len(c.send)
            for i := 0; i < n; i++ {
                w.Write([]byte{'\n'})
                w.Write(<-c.send)
            }

            if err := w.Close(); err != nil {
                return
            }

        case <-ticker.C:
            c.conn.SetWriteDeadline(time.Now().Add(writeWait))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}

func (c *Client) processMessage(data []byte) {
    var msg WSMessage
    if err := json.Unmarshal(data, &msg); err != nil {
        log.Printf("Error unmarshaling message: %v", err)
        return
    }

    var payload WSSendPayload
    if err := json.Unmarshal(msg.Data, &payload); err != nil {
        log.Printf("Error unmarshaling payload: %v", err)
        return
    }

    ctx := context.Background()

    switch WSMessageType(msg.Type) {
    case WSTypeMessage:
        if payload.Content == "" {
            return
        }
        _, err := c.service.SendMessage(ctx, payload.MatchID, c.userID, &SendMessageRequest{
            Content: payload.Content,
        })
        if err != nil {
            log.Printf("Error sending message from user %d: %v", c.userID, err)
        }

    case WSTypeTyping, WSTypeStopTyping:
        // Typing indicators are relayed but never persisted
        otherID, err := c.service.Authorize(ctx, payload.MatchID, c.userID)
        if err != nil {
            return
        }
        c.hub.SendToUser(otherID, NewWSMessage(WSMessageType(msg.Type), map[string]int64{
            "match_id": payload.MatchID,
            "user_id":  c.userID,
        }))

    case WSTypeRead:
        if _, err := c.service.MarkRead(ctx, payload.MatchID, c.userID); err != nil {
            log.Printf("Error marking messages read for user %d: %v", c.userID, err)
        }

    default:
        log.Printf("Unknown message type: %s", msg.Type)
    }
}
