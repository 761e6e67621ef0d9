package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"
	"safvacut-wallet-go/internal/storetest"
)

// gatedDocs fails or blocks SetNotificationRead on demand.
type gatedDocs struct {
	store.DocumentStore
	mu   sync.Mutex
	fail error
	gate chan struct{}
}

func (g *gatedDocs) SetNotificationRead(ctx context.Context, userId, id string, read bool) error {
	g.mu.Lock()
	gate, fail := g.gate, g.fail
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if fail != nil {
		return fail
	}
	return g.DocumentStore.SetNotificationRead(ctx, userId, id, read)
}

func setupCenter(t *testing.T) (*Center, *gatedDocs) {
	t.Helper()
	docs := &gatedDocs{DocumentStore: storetest.NewBackend(t)}
	c := NewCenter(docs, "uid-1")
	t.Cleanup(c.Close)

	base := time.Now().UTC()
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return c, docs
}

func TestAppendReloadsWithLimit(t *testing.T) {
	c, _ := setupCenter(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if err := c.Append(ctx, "Title", fmt.Sprintf("message %d", i), models.SeverityInfo); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	items := c.List()
	if len(items) != ListLimit {
		t.Fatalf("Expected %d items, got %d", ListLimit, len(items))
	}
	if items[0].Message != "message 24" {
		t.Errorf("Expected newest first, got %q", items[0].Message)
	}
	if got := c.UnreadCount(); got != ListLimit {
		t.Errorf("Expected unread %d, got %d", ListLimit, got)
	}
}

func TestAppendSeverity(t *testing.T) {
	c, _ := setupCenter(t)
	ctx := context.Background()

	if err := c.Append(ctx, "T", "m", ""); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if got := c.List()[0].Type; got != models.SeverityInfo {
		t.Errorf("Expected default severity info, got %s", got)
	}
	if err := c.Append(ctx, "T", "m", "fatal"); err == nil {
		t.Error("Expected error for unknown severity")
	}
}

func TestMarkReadPersists(t *testing.T) {
	c, docs := setupCenter(t)
	ctx := context.Background()

	if err := c.Append(ctx, "Wallet Connected", "MetaMask wallet connected successfully", models.SeveritySuccess); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	id := c.List()[0].Id

	if err := <-c.MarkRead(ctx, id); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if c.UnreadCount() != 0 {
		t.Errorf("Expected 0 unread, got %d", c.UnreadCount())
	}

	stored, err := docs.ListNotifications(ctx, "uid-1", ListLimit)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if !stored[0].IsRead {
		t.Error("Expected stored notification to be read")
	}
}

func TestMarkReadRollsBackOnFailure(t *testing.T) {
	c, docs := setupCenter(t)
	ctx := context.Background()

	if err := c.Append(ctx, "T", "m", models.SeverityInfo); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	id := c.List()[0].Id

	boom := errors.New("write rejected")
	docs.mu.Lock()
	docs.fail = boom
	docs.gate = make(chan struct{})
	gate := docs.gate
	docs.mu.Unlock()

	result := c.MarkRead(ctx, id)

	// Optimistic state is visible before the write lands.
	if c.UnreadCount() != 0 {
		t.Errorf("Expected optimistic read, got %d unread", c.UnreadCount())
	}
	close(gate)

	if err := <-result; !errors.Is(err, boom) {
		t.Fatalf("Expected write error, got %v", err)
	}
	if c.UnreadCount() != 1 {
		t.Errorf("Expected rollback to unread, got %d unread", c.UnreadCount())
	}
}

func TestReloadKeepsPendingReads(t *testing.T) {
	c, docs := setupCenter(t)
	ctx := context.Background()

	if err := c.Append(ctx, "T", "m", models.SeverityInfo); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	id := c.List()[0].Id

	docs.mu.Lock()
	docs.gate = make(chan struct{})
	gate := docs.gate
	docs.mu.Unlock()

	result := c.MarkRead(ctx, id)
	if err := c.Append(ctx, "T2", "m2", models.SeverityInfo); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if got := c.UnreadCount(); got != 1 {
		t.Errorf("Expected pending read to survive reload, got %d unread", got)
	}

	close(gate)
	if err := <-result; err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	c, _ := setupCenter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Append(ctx, "T", "m", models.SeverityWarning); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := c.MarkAllRead(ctx); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if c.UnreadCount() != 0 {
		t.Errorf("Expected all read after reload, got %d unread", c.UnreadCount())
	}
}

func TestMarkReadUnknownAndClosed(t *testing.T) {
	c, _ := setupCenter(t)
	ctx := context.Background()

	if err := <-c.MarkRead(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := c.Append(ctx, "T", "m", models.SeverityInfo); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	c.Close()

	id := c.List()[0].Id
	if err := <-c.MarkRead(ctx, id); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if c.UnreadCount() != 1 {
		t.Errorf("Expected rollback after close, got %d unread", c.UnreadCount())
	}
}
