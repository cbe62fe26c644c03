package worker

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/logger"
)

// Pool is the in-process queue: a bounded channel drained by a fixed
// number of goroutines.
type Pool struct {
	handler Handler
	logger  *logger.Logger
	workers int
	jobs    chan Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewPool(handler Handler, workers, size int, logger *logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	return &Pool{
		handler: handler,
		logger:  logger.WithPrefix("pool"),
		workers: workers,
		jobs:    make(chan Event, size),
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.logger.Info("Started %d workers", p.workers)
}

// Enqueue never blocks: a full buffer is reported as ErrQueueFull.
func (p *Pool) Enqueue(ctx context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrQueueClosed
	}
	select {
	case p.jobs <- event:
		p.logger.Debug("Queued %s event %s", event.Type, event.ID)
		return nil
	default:
		return fmt.Errorf("%w: dropped %s event for %q", ErrQueueFull, event.Type, event.ProductID)
	}
}

// Stop closes the queue and waits for queued events to drain. If ctx
// expires first, in-flight work is cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if p.cancel != nil {
		p.cancel()
	}
	return err
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for event := range p.jobs {
		if err := p.handler.Process(ctx, event); err != nil {
			p.logger.Error("Worker %d failed %s event %s: %v", id, event.Type, event.ID, err)
		}
	}
}
