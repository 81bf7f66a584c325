package handlers

import (
	"courier-server/middleware"
	"courier-server/services"
	"courier-server/utils/errors"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// POST /chats/resolve {"other_id": ...} -> {"chat_id": ...}
func (h *ChatHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		OtherID string `json:"other_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	chatID, err := h.chatService.Resolve(r.Context(), userID, input.OtherID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"chat_id": chatID})
}

// GET /chats
func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	conversations, err := h.chatService.Conversations(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversations)
}

// GET /chats/{id}/messages
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	chatID := mux.Vars(r)["id"]

	messages, err := h.chatService.Messages(r.Context(), chatID, userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// POST /chats/{id}/messages {"body": ...}
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	chatID := mux.Vars(r)["id"]

	var input struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	msg, err := h.chatService.Send(r.Context(), chatID, userID, input.Body)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// POST /chats/{id}/read
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	chatID := mux.Vars(r)["id"]

	if err := h.chatService.MarkRead(r.Context(), chatID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Marked read"})
}
