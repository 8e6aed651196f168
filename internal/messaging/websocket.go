// internal/messaging/websocket.go

package messaging

import (
    "log"
    "net/http"

    "github.com/gorilla/websocket"

    "github.com/coha-app/coha-backend/internal/auth"
    "github.com/coha-app/coha-backend/internal/common/utils"
)

// Upgrader for WebSocket connections
var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin: func(r *http.Request) bool {
        // TODO: restrict origins once the web client's domain is fixed
        return true
    },
}

// ServeWS upgrades the HTTP connection and registers the client with the hub
func ServeWS(hub *Hub, service Service) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        userID, ok := auth.GetUserIDFromContext(r.Context())
        if !ok {
            utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
            return
        }

        conn, err := upgrader.Upgrade(w, r, nil)
        if err != nil {
            log.Printf("WebSocket upgrade failed: %v", err)
            return
        }

        client := NewClient(hub, conn, userID, service)
        client.Start()
    }
}
