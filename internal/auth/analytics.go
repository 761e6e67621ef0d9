package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventLogin      = "login"
	EventLoginError = "login_error"
	EventLogout     = "logout"
)

// Tracker records analytics events. Implementations must not block the
// caller and never retry.
type Tracker interface {
	Track(event string, params map[string]any)
}

// LogTracker writes events to the structured log.
type LogTracker struct{}

func (LogTracker) Track(event string, params map[string]any) {
	zap.L().Info("Auth event", zap.String("event", event), zap.Any("params", params))
}

// StreamTracker appends events to a Redis stream in the background.
type StreamTracker struct {
	rdb     redis.UniversalClient
	stream  string
	timeout time.Duration
}

func NewStreamTracker(rdb redis.UniversalClient, stream string) *StreamTracker {
	return &StreamTracker{rdb: rdb, stream: stream, timeout: 2 * time.Second}
}

func (t *StreamTracker) Track(event string, params map[string]any) {
	values := make(map[string]any, len(params)+2)
	for k, v := range params {
		values[k] = v
	}
	values["event"] = event
	values["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		err := t.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: t.stream,
			MaxLen: 100000,
			Approx: true,
			Values: values,
		}).Err()
		if err != nil {
			zap.L().Warn("Dropped analytics event", zap.String("event", event), zap.Error(err))
		}
	}()
}
