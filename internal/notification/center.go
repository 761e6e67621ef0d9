package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListLimit is how many notifications a reload fetches.
const ListLimit = 20

const writeTimeout = 10 * time.Second

var ErrClosed = errors.New("notification center closed")

type markJob struct {
	ctx    context.Context
	id     string
	result chan error
}

// Center is one user's notification bell. Reads are served from the loaded
// list; read-state changes are written through a queue and rolled back
// locally if the write fails.
type Center struct {
	docs   store.DocumentStore
	userId string
	now    func() time.Time

	mu      sync.Mutex
	items   []models.Notification
	pending map[string]bool

	queue     chan markJob
	inflight  sync.WaitGroup
	sendMu    sync.RWMutex
	closed    bool
	closeOnce sync.Once
	stopped   chan struct{}
}

func NewCenter(docs store.DocumentStore, userId string) *Center {
	c := &Center{
		docs:    docs,
		userId:  userId,
		now:     func() time.Time { return time.Now().UTC() },
		pending: make(map[string]bool),
		queue:   make(chan markJob, 64),
		stopped: make(chan struct{}),
	}
	go c.run()
	return c
}

// Reload replaces the loaded list with the newest ListLimit notifications.
func (c *Center) Reload(ctx context.Context) error {
	items, err := c.docs.ListNotifications(ctx, c.userId, ListLimit)
	if err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range items {
		if read, ok := c.pending[items[i].Id]; ok {
			items[i].IsRead = read
		}
	}
	c.items = items
	return nil
}

// Append writes a new unread notification and reloads the whole list.
func (c *Center) Append(ctx context.Context, title, message, severity string) error {
	switch severity {
	case models.SeveritySuccess, models.SeverityError, models.SeverityWarning, models.SeverityInfo:
	case "":
		severity = models.SeverityInfo
	default:
		return fmt.Errorf("unknown notification severity %q", severity)
	}

	n := models.Notification{
		Id:        uuid.New().String(),
		UserId:    c.userId,
		Title:     title,
		Message:   message,
		Type:      severity,
		IsRead:    false,
		CreatedAt: c.now(),
	}
	if err := c.docs.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return c.Reload(ctx)
}

// List returns a copy of the loaded notifications, newest first.
func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount counts unread entries in the loaded list only.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// MarkRead flips the local flag immediately and queues the remote write.
// The returned channel yields the write's outcome once; on failure the
// local flag has already been restored.
func (c *Center) MarkRead(ctx context.Context, id string) <-chan error {
	result := make(chan error, 1)

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		result <- fmt.Errorf("notification %s: %w", id, store.ErrNotFound)
		close(result)
		return result
	}
	if c.items[idx].IsRead {
		c.mu.Unlock()
		close(result)
		return result
	}
	c.items[idx].IsRead = true
	c.pending[id] = true
	c.inflight.Add(1)
	c.mu.Unlock()

	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.closed {
		c.rollback(id)
		c.inflight.Done()
		result <- ErrClosed
		close(result)
		return result
	}
	c.queue <- markJob{ctx: context.WithoutCancel(ctx), id: id, result: result}
	return result
}

// MarkAllRead marks every loaded unread notification and waits for the writes.
func (c *Center) MarkAllRead(ctx context.Context) error {
	var results []<-chan error
	for _, item := range c.List() {
		if !item.IsRead {
			results = append(results, c.MarkRead(ctx, item.Id))
		}
	}

	var firstErr error
	for _, r := range results {
		select {
		case err := <-r:
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return firstErr
}

// Flush waits until every queued write has finished.
func (c *Center) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue and stops the writer.
func (c *Center) Close() {
	c.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.Flush(ctx); err != nil {
			zap.L().Warn("Notification writes still pending at close", zap.String("user_id", c.userId))
		}

		c.sendMu.Lock()
		c.closed = true
		close(c.stopped)
		c.sendMu.Unlock()
	})
}

func (c *Center) run() {
	for {
		select {
		case job := <-c.queue:
			c.write(job)
		case <-c.stopped:
			// Nothing is enqueued once stopped is closed.
			for {
				select {
				case job := <-c.queue:
					c.write(job)
				default:
					return
				}
			}
		}
	}
}

func (c *Center) write(job markJob) {
	defer c.inflight.Done()
	defer close(job.result)

	ctx, cancel := context.WithTimeout(job.ctx, writeTimeout)
	defer cancel()

	err := c.docs.SetNotificationRead(ctx, c.userId, job.id, true)
	if err != nil {
		c.rollback(job.id)
		zap.L().Warn("Failed to mark notification read",
			zap.String("user_id", c.userId),
			zap.String("notification_id", job.id),
			zap.Error(err))
		job.result <- err
		return
	}

	c.mu.Lock()
	delete(c.pending, job.id)
	c.mu.Unlock()
}

func (c *Center) rollback(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if idx := c.indexOf(id); idx >= 0 {
		c.items[idx].IsRead = false
	}
}

func (c *Center) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].Id == id {
			return i
		}
	}
	return -1
}
