package handlers

import (
	"courier-server/middleware"
	"courier-server/services"
	"courier-server/utils/errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is handled by the CORS middleware on the REST surface;
	// the socket carries its own token auth.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub       *services.Hub
	jwtSecret string
}

func NewWSHandler(hub *services.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret}
}

// GET /ws/chats/{id}?token=...
// Pushes the full display-mapped message set on subscribe and after every
// change until the socket closes.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	userID, err := middleware.ParseUserID(tokenString, h.jwtSecret)
	if err != nil {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	chatID := mux.Vars(r)["id"]

	sub, err := h.hub.Subscribe(r.Context(), chatID, userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unsubscribe(sub)
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	// Reader: only watches for the client going away.
	go func() {
		defer h.hub.Unsubscribe(sub)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Writer: drains snapshots until unsubscribed.
	go func() {
		for data := range sub.Send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				conn.Close()
				return
			}
		}
		conn.Close()
	}()
}
