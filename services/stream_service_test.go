package services

import (
	"context"
	"strings"
	"testing"

	"courier-server/models"
)

// gatedSource lets a test hold the first snapshot build open while it
// inspects the hub.
type gatedSource struct {
	entered chan struct{}
	release chan struct{}
	msgs    []models.DisplayMessage
}

func (g *gatedSource) Messages(ctx context.Context, chatID, viewerID string) ([]models.DisplayMessage, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return g.msgs, nil
}

func TestSubscribeRegistersBeforeFirstSnapshot(t *testing.T) {
	src := &gatedSource{entered: make(chan struct{}), release: make(chan struct{})}
	h := NewHub(src)

	subCh := make(chan *Subscriber, 1)
	errCh := make(chan error, 1)
	go func() {
		sub, err := h.Subscribe(context.Background(), "c1", "alice")
		errCh <- err
		subCh <- sub
	}()

	<-src.entered
	h.mu.RLock()
	n := len(h.subs["c1"])
	h.mu.RUnlock()
	if n != 1 {
		t.Fatal("subscriber not visible while the first snapshot builds; a change in that window would be lost")
	}

	close(src.release)
	if err := <-errCh; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sub := <-subCh
	select {
	case <-sub.Send:
	default:
		t.Fatal("initial snapshot not delivered")
	}
	h.Unsubscribe(sub)
}

func TestHubPushDeliversSnapshotAndCloseStopsDelivery(t *testing.T) {
	src := &gatedSource{msgs: []models.DisplayMessage{{ID: "m1", Text: "hello"}}}
	h := NewHub(src)

	sub, err := h.Subscribe(context.Background(), "c1", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-sub.Send // initial snapshot

	h.push("c1")
	select {
	case data := <-sub.Send:
		if !strings.Contains(string(data), "m1") {
			t.Fatalf("snapshot missing message: %s", data)
		}
	default:
		t.Fatal("change snapshot not delivered")
	}

	h.Unsubscribe(sub)
	if _, ok := <-sub.Send; ok {
		t.Fatal("send channel should be closed after unsubscribe")
	}
	// Idempotent teardown.
	h.Unsubscribe(sub)
}
