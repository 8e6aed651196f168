// internal/messaging/hub.go

package messaging

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"
)

// Hub maintains active websocket connections keyed by user
type Hub struct {
    clients    map[int64]*Client
    clientsMux sync.RWMutex

    register   chan *Client
    unregister chan *Client

    // Context for graceful shutdown
    ctx    context.Context
    cancel context.CancelFunc

    wg sync.WaitGroup
}

func NewHub() *Hub {
    ctx, cancel := context.WithCancel(context.Background())

    return &Hub{
        clients:    make(map[int64]*Client),
        register:   make(chan *Client),
        unregister: make(chan *Client),
        ctx:        ctx,
        cancel:     cancel,
    }
}

func (h *Hub) Run() {
    defer h.cleanup()

    for {
        select {
        case client := <-h.register:
            h.registerClient(client)

        case client := <-h.unregister:
            h.unregisterClient(client)

        case <-h.ctx.Done():
            return
        }
    }
}

func (h *Hub) registerClient(client *Client) {
    h.clientsMux.Lock()
    defer h.clientsMux.Unlock()

    // One connection per user; a new connection replaces the old one
    if oldClient, exists := h.clients[client.userID]; exists {
        oldClient.Close()
    }

    h.clients[client.userID] = client
    SetActiveConnections(len(h.clients))

    log.Printf("User %d connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
    h.clientsMux.Lock()
    defer h.clientsMux.Unlock()

    if current, exists := h.clients[client.userID]; exists && current == client {
        client.Close()
        delete(h.clients, client.userID)
        SetActiveConnections(len(h.clients))

        log.Printf("User %d disconnected. Total clients: %d", client.userID, len(h.clients))
    }
}

// SendToUser delivers a frame to a connected user. Offline users are skipped;
// they pick up history over HTTP when they reconnect.
func (h *Hub) SendToUser(userID int64, message WSMessage) {
    h.clientsMux.RLock()
    client, exists := h.clients[userID]
    h.clientsMux.RUnlock()

    if !exists {
        return
    }

    data, err := json.Marshal(message)
    if err != nil {
        log.Printf("Error marshalling message: %v", err)
        return
    }

    select {
    case client.send <- data:
    default:
        // Unregister if the send buffer is full
        go func() { h.unregister <- client }()
    }
}

func (h *Hub) IsUserOnline(userID int64) bool {
    h.clientsMux.RLock()
    defer h.clientsMux.RUnlock()

    _, exists := h.clients[userID]
    return exists
}

func (h *Hub) GetActiveConnections() int {
    h.clientsMux.RLock()
    defer h.clientsMux.RUnlock()
    return len(h.clients)
}

func (h *Hub) Shutdown() {
    h.cancel()
    h.wg.Wait()
}

func (h *Hub) cleanup() {
    h.clientsMux.Lock()
    for _, client := range h.clients {
        client.Close()
    }
    h.clients = make(map[int64]*Client)
    h.clientsMux.Unlock()
}

// NewWSMessage wraps a payload in the websocket envelope
func NewWSMessage(msgType WSMessageType, payload interface{}) WSMessage {
    return WSMessage{
        Type:      string(msgType),
        Data:      mustMarshalJSON(payload),
        Timestamp: time.Now(),
    }
}

func mustMarshalJSON(v interface{}) json.RawMessage {
    data, err := json.Marshal(v)
    if err != nil {
        log.Printf("Error marshaling: %v", err)
        return json.RawMessage(`{}`)
    }
    return json.RawMessage(data)
}
