package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"storefront/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	block  chan struct{}
}

func (h *recordingHandler) Process(ctx context.Context, event Event) error {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func (h *recordingHandler) processed() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

func TestPoolProcessesQueuedEvents(t *testing.T) {
	h := &recordingHandler{}
	pool := NewPool(h, 3, 16, testLogger())
	pool.Start(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Enqueue(context.Background(), NewEvent(EventProductUpdated, "p", SourceWebhook)))
	}

	require.NoError(t, pool.Stop(context.Background()))
	assert.Len(t, h.processed(), 10)
}

func TestPoolHandlerFailuresAreNotReturned(t *testing.T) {
	h := &recordingHandler{fail: true}
	pool := NewPool(h, 1, 4, testLogger())
	pool.Start(context.Background())

	assert.NoError(t, pool.Enqueue(context.Background(), NewEvent(EventSyncRequested, "", SourceAdmin)))
	require.NoError(t, pool.Stop(context.Background()))
	assert.Len(t, h.processed(), 1)
}

func TestPoolEnqueueFailsFastWhenFull(t *testing.T) {
	h := &recordingHandler{block: make(chan struct{})}
	pool := NewPool(h, 1, 1, testLogger())
	pool.Start(context.Background())

	// The single worker takes the first event and blocks, the second fills
	// the buffer, so the third cannot be accepted.
	require.NoError(t, pool.Enqueue(context.Background(), NewEvent(EventProductUpdated, "a", SourceWebhook)))
	require.Eventually(t, func() bool { return len(pool.jobs) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, pool.Enqueue(context.Background(), NewEvent(EventProductUpdated, "b", SourceWebhook)))

	err := pool.Enqueue(context.Background(), NewEvent(EventProductUpdated, "c", SourceWebhook))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(h.block)
	require.NoError(t, pool.Stop(context.Background()))
	assert.Len(t, h.processed(), 2)
}

func TestPoolRejectsAfterStop(t *testing.T) {
	pool := NewPool(&recordingHandler{}, 1, 1, testLogger())
	pool.Start(context.Background())
	require.NoError(t, pool.Stop(context.Background()))

	err := pool.Enqueue(context.Background(), NewEvent(EventSyncRequested, "", SourceAdmin))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// stopping twice is harmless
	assert.NoError(t, pool.Stop(context.Background()))
}

func TestPoolStopHonoursDeadline(t *testing.T) {
	h := &recordingHandler{block: make(chan struct{})}
	defer close(h.block)
	pool := NewPool(h, 1, 1, testLogger())
	pool.Start(context.Background())
	require.NoError(t, pool.Enqueue(context.Background(), NewEvent(EventSyncRequested, "", SourceAdmin)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Stop(ctx), context.DeadlineExceeded)
}
