package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aviaunion/portal/common/logger"
	redisWrapper "github.com/aviaunion/portal/common/redis"
)

// Notification is one push message handed to the delivery fan-out.
// MemberID targets a single member; empty means broadcast.
type Notification struct {
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	MemberID string    `json:"member_id,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

// Dispatcher delivers notifications best-effort. Dispatch never returns an
// error: delivery failures are logged and swallowed so they cannot abort a
// workflow transition.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}

// RedisDispatcher publishes notifications onto a Redis pub/sub channel
// consumed by the push delivery worker
type RedisDispatcher struct {
	redis   *redisWrapper.Client
	channel string
	log     *logger.Logger
}

// NewRedisDispatcher creates a Redis-backed dispatcher
func NewRedisDispatcher(client *redisWrapper.Client, channel string, log *logger.Logger) *RedisDispatcher {
	return &RedisDispatcher{
		redis:   client,
		channel: channel,
		log:     log,
	}
}

// Dispatch publishes the notification, logging and swallowing failures
func (d *RedisDispatcher) Dispatch(ctx context.Context, n Notification) {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		d.log.Error("failed to marshal notification", "kind", n.Kind, "error", err)
		return
	}

	if err := d.redis.Publish(ctx, d.channel, payload); err != nil {
		d.log.Warn("notification dispatch failed", "kind", n.Kind, "error", err)
		return
	}

	d.log.Debug("notification dispatched", "kind", n.Kind, "member_id", n.MemberID)
}

// NopDispatcher drops all notifications; used when dispatch is disabled
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, Notification) {}

// MemoryDispatcher records notifications in memory; used by tests
type MemoryDispatcher struct {
	mu   sync.Mutex
	sent []Notification
}

// NewMemoryDispatcher creates an in-memory dispatcher
func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{}
}

// Dispatch records the notification
func (d *MemoryDispatcher) Dispatch(_ context.Context, n Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	d.sent = append(d.sent, n)
}

// Sent returns a copy of everything dispatched so far
func (d *MemoryDispatcher) Sent() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Notification, len(d.sent))
	copy(out, d.sent)
	return out
}
