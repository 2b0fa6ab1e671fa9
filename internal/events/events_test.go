// internal/events/events_test.go
package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recorder) handle(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) seen() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestNewDropsNilAndDuplicateRecipients(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	e := New(TaskAssigned, "Task assigned", "You have a new task", nil, a, uuid.Nil, b, a)
	assert.Equal(t, []uuid.UUID{a, b}, e.Recipients)
	assert.NotEqual(t, uuid.Nil, e.ID)
}

func TestSyncSwallowsHandlerErrors(t *testing.T) {
	rec := &recorder{err: errors.New("mail down")}
	pub := NewSync(rec.handle)

	err := pub.Publish(context.Background(), New(LeadAssigned, "t", "m", nil, uuid.New()))
	require.NoError(t, err)
	assert.Len(t, rec.seen(), 1)
}

func TestSyncSkipsEventsWithoutRecipients(t *testing.T) {
	rec := &recorder{}
	require.NoError(t, NewSync(rec.handle).Publish(context.Background(), New(LeadAssigned, "t", "m", nil)))
	assert.Empty(t, rec.seen())
}

func TestAsyncDeliversAndDrainsOnShutdown(t *testing.T) {
	rec := &recorder{}
	pub := NewAsync(rec.handle, 8)
	ctx, cancel := context.WithCancel(context.Background())
	pub.Start(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, pub.Publish(ctx, New(TaskAssigned, "t", "m", nil, uuid.New())))
	}
	cancel()
	pub.Wait()

	assert.Len(t, rec.seen(), 3)
}

func TestAsyncDropsWhenBufferIsFull(t *testing.T) {
	rec := &recorder{}
	pub := NewAsync(rec.handle, 1)

	require.NoError(t, pub.Publish(context.Background(), New(TaskAssigned, "a", "m", nil, uuid.New())))
	require.NoError(t, pub.Publish(context.Background(), New(TaskAssigned, "b", "m", nil, uuid.New())))

	ctx, cancel := context.WithCancel(context.Background())
	pub.Start(ctx)
	cancel()
	pub.Wait()

	events := rec.seen()
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].Title)
}

func newQueue(t *testing.T, h Handler) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisQueue(client, "test:events", h), mr
}

func TestRedisQueueDrainPreservesOrder(t *testing.T) {
	rec := &recorder{}
	q, _ := newQueue(t, rec.handle)
	ctx := context.Background()
	recipient := uuid.New()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, q.Publish(ctx, New(RoyaltyGenerated, title, "m", map[string]interface{}{"period": "2024-03"}, recipient)))
	}
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	handled, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, handled)

	events := rec.seen()
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Title)
	assert.Equal(t, "third", events[2].Title)
	assert.Equal(t, []uuid.UUID{recipient}, events[0].Recipients)
	assert.Equal(t, "2024-03", events[0].Data["period"])

	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisQueueDiscardsGarbage(t *testing.T) {
	rec := &recorder{}
	q, mr := newQueue(t, rec.handle)
	_, err := mr.Lpush("test:events", "{not json")
	require.NoError(t, err)

	handled, err := q.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, handled)
	assert.Empty(t, rec.seen())
}

func TestRedisQueueRunStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	q, _ := newQueue(t, rec.handle)
	q.timeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	require.NoError(t, q.Publish(context.Background(), New(TicketEscalated, "t", "m", nil, uuid.New())))
	require.Eventually(t, func() bool { return len(rec.seen()) == 1 }, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
