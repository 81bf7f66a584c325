package services

import (
	"courier-server/models"
	"testing"
	"time"
)

func TestPairKeyOrderIndependent(t *testing.T) {
	if PairKey("alice", "bob") != PairKey("bob", "alice") {
		t.Fatal("pair key must not depend on argument order")
	}
	if PairKey("alice", "bob") != "alice:bob" {
		t.Fatalf("got %q", PairKey("alice", "bob"))
	}
}

func TestClassifyBody(t *testing.T) {
	images := []string{
		"http://cdn.example.com/images/1.png",
		"https://cdn.example.com/a%20b.jpg",
		"  https://cdn.example.com/x  ",
	}
	for _, body := range images {
		if ClassifyBody(body) != models.MessageImage {
			t.Errorf("%q should classify as image", body)
		}
	}

	texts := []string{
		"hi",
		"meet me at http anytime",
		"http://",             // no host
		"ftp://files.example", // not http(s)
		"httpnotaurl",
		"",
	}
	for _, body := range texts {
		if ClassifyBody(body) != models.MessageText {
			t.Errorf("%q should classify as text", body)
		}
	}
}

func TestMapMessagesReversesAndSplitsKinds(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := []models.Message{
		{ID: "1", SenderID: "a", Body: "hello", Kind: models.MessageText, Timestamp: base},
		{ID: "2", SenderID: "b", Body: "https://cdn.example.com/p.jpg", Kind: models.MessageImage, Timestamp: base.Add(time.Minute)},
		{ID: "3", SenderID: "a", Body: "bye", Kind: models.MessageText, Timestamp: base.Add(2 * time.Minute)},
	}

	out := MapMessages(raw)
	if len(out) != 3 {
		t.Fatalf("got %d messages", len(out))
	}
	// Most recent first
	if out[0].ID != "3" || out[2].ID != "1" {
		t.Fatalf("wrong order: %s, %s, %s", out[0].ID, out[1].ID, out[2].ID)
	}
	if out[1].Image == "" || out[1].Text != "" {
		t.Fatal("image message should render as image only")
	}
	if out[0].Text == "" || out[0].Image != "" {
		t.Fatal("text message should render as text only")
	}
}

func TestMapMessagesLegacyKindFallback(t *testing.T) {
	// Records written before the kind field existed carry only a body.
	raw := []models.Message{
		{ID: "1", Body: "https://cdn.example.com/p.jpg"},
		{ID: "2", Body: "just text"},
	}
	out := MapMessages(raw)
	if out[1].Image == "" {
		t.Fatal("legacy URL body should fall back to image")
	}
	if out[0].Text == "" {
		t.Fatal("legacy plain body should fall back to text")
	}
}

func TestFindExistingChatReturnsPairedChat(t *testing.T) {
	chats := []models.Chat{
		{ID: "c1", Participants: []string{"alice", "carol"}},
		{ID: "c2", Participants: []string{"alice", "bob"}},
	}
	id, ok := findExistingChat(chats, "bob")
	if !ok || id != "c2" {
		t.Fatalf("got (%q, %v), want (\"c2\", true)", id, ok)
	}
}

func TestFindExistingChatIsStableAcrossResolves(t *testing.T) {
	chats := []models.Chat{
		{ID: "c1", Participants: []string{"alice", "bob"}},
	}
	first, _ := findExistingChat(chats, "bob")
	second, _ := findExistingChat(chats, "bob")
	if first != second {
		t.Fatalf("resolving the same pair twice gave %q then %q", first, second)
	}
}

func TestFindExistingChatIgnoresUnrelatedPeers(t *testing.T) {
	chats := []models.Chat{
		{ID: "c1", Participants: []string{"alice", "carol"}},
		{ID: "c2", Participants: []string{"alice", "dave"}},
	}
	if id, ok := findExistingChat(chats, "bob"); ok {
		t.Fatalf("unexpected match %q", id)
	}
	if _, ok := findExistingChat(nil, "bob"); ok {
		t.Fatal("empty chat list should not match")
	}
}
