package services

import (
	"context"
	"courier-server/models"
	"courier-server/utils/errors"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatService struct {
	store *Store
	users *UserService
	hub   *Hub
}

func NewChatService(store *Store, users *UserService) *ChatService {
	return &ChatService{store: store, users: users}
}

// SetHub attaches the live-delivery hub. Wired once at startup; nil means
// sends are persisted without push.
func (s *ChatService) SetHub(hub *Hub) { s.hub = hub }

// PairKey derives the order-independent chat key for two participant ids.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}

// ClassifyBody decides the message kind once, at ingest: a body that parses
// as an absolute http(s) URL is an image reference, anything else is text.
func ClassifyBody(body string) models.MessageKind {
	u, err := url.Parse(strings.TrimSpace(body))
	if err != nil {
		return models.MessageText
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return models.MessageImage
	}
	return models.MessageText
}

// Resolve finds or creates the single chat pairing the two users. Lookup is
// a participant query plus a local scan; creation is guarded by the unique
// pair_key index, so a concurrent first contact from both sides converges on
// one chat.
func (s *ChatService) Resolve(ctx context.Context, selfID, otherID string) (string, error) {
	if otherID == "" || otherID == selfID {
		return "", errors.ErrInvalidInput
	}
	if _, err := s.users.GetUser(ctx, otherID); err != nil {
		return "", errors.ErrNotFound
	}

	cursor, err := s.store.Chats.Find(ctx, bson.M{"participants": selfID})
	if err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Failed to look up chats", http.StatusInternalServerError)
	}
	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return "", errors.Wrap(err, "DB_ERROR", "Failed to decode chats", http.StatusInternalServerError)
	}
	if id, ok := findExistingChat(chats, otherID); ok {
		return id, nil
	}

	chat := bson.M{
		"_id":          uuid.New().String(),
		"participants": []string{selfID, otherID},
		"pair_key":     PairKey(selfID, otherID),
		"unread":       bson.M{selfID: false, otherID: true},
		"created_at":   time.Now().UTC(),
	}
	if _, err := s.store.Chats.InsertOne(ctx, chat); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the first-contact race; the winner's chat is authoritative.
			var existing models.Chat
			if err := s.store.Chats.FindOne(ctx, bson.M{"pair_key": PairKey(selfID, otherID)}).Decode(&existing); err == nil {
				return existing.ID, nil
			}
		}
		return "", errors.Wrap(err, "DB_ERROR", "Failed to create chat", http.StatusInternalServerError)
	}
	return chat["_id"].(string), nil
}

// findExistingChat scans the caller's chats for one that also includes
// otherID. Repeated resolves between the same pair land here and return the
// same chat.
func findExistingChat(chats []models.Chat, otherID string) (string, bool) {
	for _, chat := range chats {
		for _, p := range chat.Participants {
			if p == otherID {
				return chat.ID, true
			}
		}
	}
	return "", false
}

// ensureParticipant guards every per-chat operation.
func (s *ChatService) ensureParticipant(ctx context.Context, chatID, userID string) (models.Chat, error) {
	var chat models.Chat
	err := s.store.Chats.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err != nil {
		return models.Chat{}, errors.ErrNotFound
	}
	for _, p := range chat.Participants {
		if p == userID {
			return chat, nil
		}
	}
	return models.Chat{}, errors.ErrForbidden
}

// Send persists a message and flips the unread flags: recipient true, sender
// false. The two writes are independent and best-effort; a crash in between
// leaves an advisory flag stale until the next view.
func (s *ChatService) Send(ctx context.Context, chatID, senderID, body string) (models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return models.Message{}, errors.Validation("Message body is required.")
	}
	chat, err := s.ensureParticipant(ctx, chatID, senderID)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Body:      body,
		Kind:      ClassifyBody(body),
		Timestamp: time.Now().UTC(),
	}
	if _, err := s.store.Messages.InsertOne(ctx, msg); err != nil {
		return models.Message{}, errors.Wrap(err, "DB_ERROR", "Error sending message", http.StatusInternalServerError)
	}

	s.markSent(ctx, chat, senderID)

	if s.hub != nil {
		s.hub.NotifyChange(chatID)
	}
	return msg, nil
}

func (s *ChatService) markSent(ctx context.Context, chat models.Chat, senderID string) {
	set := bson.M{"unread." + senderID: false}
	for _, p := range chat.Participants {
		if p != senderID {
			set["unread."+p] = true
		}
	}
	if _, err := s.store.Chats.UpdateOne(ctx, bson.M{"_id": chat.ID}, bson.M{"$set": set}); err != nil {
		log.Printf("Failed to update unread flags for chat %s: %v", chat.ID, err)
	}
}

// MarkRead clears the viewer's unread flag.
func (s *ChatService) MarkRead(ctx context.Context, chatID, viewerID string) error {
	if _, err := s.ensureParticipant(ctx, chatID, viewerID); err != nil {
		return err
	}
	_, err := s.store.Chats.UpdateOne(ctx, bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"unread." + viewerID: false}})
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to update conversation status", http.StatusInternalServerError)
	}
	return nil
}

// Messages returns the chat's messages mapped for display, most recent
// first, and clears the viewer's unread flag as a side effect of delivery.
func (s *ChatService) Messages(ctx context.Context, chatID, viewerID string) ([]models.DisplayMessage, error) {
	if _, err := s.ensureParticipant(ctx, chatID, viewerID); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := s.store.Messages.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching messages", http.StatusInternalServerError)
	}
	var raw []models.Message
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error decoding messages", http.StatusInternalServerError)
	}

	out := MapMessages(raw)

	if _, err := s.store.Chats.UpdateOne(ctx, bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"unread." + viewerID: false}}); err != nil {
		log.Printf("Failed to clear unread flag for chat %s: %v", chatID, err)
	}
	return out, nil
}

// MapMessages turns stored messages, ordered ascending, into display records
// ordered most recent first. Messages written before the kind field existed
// fall back to the ingest classifier.
func MapMessages(raw []models.Message) []models.DisplayMessage {
	out := make([]models.DisplayMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		m := raw[i]
		kind := m.Kind
		if kind == "" {
			kind = ClassifyBody(m.Body)
		}
		dm := models.DisplayMessage{
			ID:        m.ID,
			SenderID:  m.SenderID,
			CreatedAt: m.Timestamp,
		}
		if kind == models.MessageImage {
			dm.Image = m.Body
		} else {
			dm.Text = m.Body
		}
		out = append(out, dm)
	}
	return out
}

// Conversations lists the viewer's chats with peer display data and the
// viewer's unread flag, newest chat first.
func (s *ChatService) Conversations(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.store.Chats.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching conversations", http.StatusInternalServerError)
	}
	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error decoding conversations", http.StatusInternalServerError)
	}

	out := make([]models.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		otherID := ""
		for _, p := range chat.Participants {
			if p != userID {
				otherID = p
			}
		}
		summary := models.ChatSummary{
			ID:          chat.ID,
			OtherUserID: otherID,
			Unread:      chat.Unread[userID],
		}
		if other, err := s.users.GetUser(ctx, otherID); err == nil {
			summary.FullName = other.FullName
			summary.Avatar = other.Avatar
		} else {
			summary.FullName = "Unknown"
		}
		out = append(out, summary)
	}
	return out, nil
}
