package services

import (
	"context"
	"courier-server/models"
	"encoding/json"
	"log"
	"sync"
)

// Subscriber is one open chat screen. Send is buffered; a slow consumer
// drops snapshots rather than blocking the hub.
type Subscriber struct {
	ChatID string
	UserID string
	Send   chan []byte
}

// messageSource provides the display-mapped message set for a viewer.
// Satisfied by ChatService.
type messageSource interface {
	Messages(ctx context.Context, chatID, viewerID string) ([]models.DisplayMessage, error)
}

// Hub pushes the full mapped message set of a chat to every subscriber on
// each change. Delivery also clears the viewing participant's unread flag.
type Hub struct {
	mu     sync.RWMutex
	source messageSource
	subs   map[string]map[*Subscriber]bool

	NotifyChan chan string
}

func NewHub(source messageSource) *Hub {
	return &Hub{
		source:     source,
		subs:       map[string]map[*Subscriber]bool{},
		NotifyChan: make(chan string, 64),
	}
}

func (h *Hub) Run() {
	for chatID := range h.NotifyChan {
		h.push(chatID)
	}
}

// NotifyChange signals that a chat's message set changed.
func (h *Hub) NotifyChange(chatID string) {
	select {
	case h.NotifyChan <- chatID:
	default:
		log.Printf("Hub notify queue full, dropping signal for chat %s", chatID)
	}
}

// Subscribe registers a viewer and immediately delivers the current snapshot.
func (h *Hub) Subscribe(ctx context.Context, chatID, userID string) (*Subscriber, error) {
	// Participant check happens in the first delivery.
	sub := &Subscriber{ChatID: chatID, UserID: userID, Send: make(chan []byte, 8)}

	// Register before building the first snapshot so a change arriving in
	// between still reaches this subscriber.
	h.mu.Lock()
	if _, ok := h.subs[chatID]; !ok {
		h.subs[chatID] = map[*Subscriber]bool{}
	}
	h.subs[chatID][sub] = true
	h.mu.Unlock()

	data, err := h.snapshot(ctx, sub)
	if err != nil {
		h.Unsubscribe(sub)
		return nil, err
	}

	select {
	case sub.Send <- data:
	default:
		// A change snapshot already filled the buffer; it is at least as
		// fresh as this one.
	}

	return sub, nil
}

// Unsubscribe tears the subscription down; no further deliveries happen
// after it returns.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[sub.ChatID]; ok {
		if set[sub] {
			delete(set, sub)
			close(sub.Send)
		}
		if len(set) == 0 {
			delete(h.subs, sub.ChatID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) push(chatID string) {
	h.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(h.subs[chatID]))
	for sub := range h.subs[chatID] {
		snapshot = append(snapshot, sub)
	}
	h.mu.RUnlock()

	type delivery struct {
		sub  *Subscriber
		data []byte
	}
	deliveries := make([]delivery, 0, len(snapshot))
	for _, sub := range snapshot {
		data, err := h.snapshot(context.Background(), sub)
		if err != nil {
			log.Printf("Failed to build snapshot for chat %s: %v", chatID, err)
			continue
		}
		deliveries = append(deliveries, delivery{sub, data})
	}

	// Deliver under the read lock so a concurrent Unsubscribe cannot close
	// a channel mid-send. Sends never block.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, d := range deliveries {
		if !h.registered(d.sub) {
			continue
		}
		select {
		case d.sub.Send <- d.data:
		default:
		}
	}
}

func (h *Hub) registered(sub *Subscriber) bool {
	set, ok := h.subs[sub.ChatID]
	return ok && set[sub]
}

func (h *Hub) snapshot(ctx context.Context, sub *Subscriber) ([]byte, error) {
	messages, err := h.source.Messages(ctx, sub.ChatID, sub.UserID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"chat_id":  sub.ChatID,
		"messages": messages,
	})
}
