// Package ops delivers operational audit events without blocking callers.
//
// Emit samples the event, enqueues it on a bounded buffer and returns. A
// background worker drains the buffer into the sink behind a circuit breaker.
// Every drop is counted, and none is reported to the caller.
package ops

import (
	"context"
	"log/slog"
	"sync"

	audit "greenforge/pkg/platform/audit"
	"greenforge/pkg/platform/audit/worker"
	"greenforge/pkg/requestcontext"
)

const defaultBufferSize = 1024

// Tracker is an asynchronous, sampled audit.Emitter.
type Tracker struct {
	sink    audit.Store
	sampler *Sampler
	breaker *CircuitBreaker
	metrics *Metrics
	logger  *slog.Logger

	buffer chan audit.Event
	once   sync.Once
	done   chan struct{}
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithSampler(s *Sampler) Option {
	return func(t *Tracker) { t.sampler = s }
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(t *Tracker) { t.breaker = cb }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithBufferSize bounds the number of events waiting for the sink.
func WithBufferSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.buffer = make(chan audit.Event, n)
		}
	}
}

// NewTracker starts a tracker delivering to sink. Call Close to drain it.
func NewTracker(sink audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		sink:    sink,
		sampler: NewSampler(1),
		breaker: NewCircuitBreaker(5, 0),
		logger:  slog.Default(),
		buffer:  make(chan audit.Event, defaultBufferSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	w := worker.NewWorker(guardedSink{t}, t.buffer, t.logger)
	go func() {
		defer close(t.done)
		_ = w.Run(context.Background())
	}()
	return t
}

// Emit queues event for delivery. It never blocks and never fails.
func (t *Tracker) Emit(ctx context.Context, event audit.Event) error {
	if !t.sampler.ShouldSample(event.Action) {
		t.metrics.IncSampled()
		return nil
	}
	event.Prepare(requestcontext.Now(ctx))
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	select {
	case t.buffer <- event:
	default:
		t.metrics.IncBufferDropped()
		t.logger.DebugContext(ctx, "audit buffer full, dropping event",
			"event_id", event.ID,
			"action", event.Action,
		)
	}
	return nil
}

// Close stops accepting events and waits until the buffer is drained.
// Emit must not be called after Close.
func (t *Tracker) Close() {
	t.once.Do(func() {
		close(t.buffer)
	})
	<-t.done
}

// guardedSink applies the circuit breaker around the real sink.
type guardedSink struct {
	t *Tracker
}

func (g guardedSink) Append(ctx context.Context, event audit.Event) error {
	t := g.t
	if !t.breaker.Allow() {
		t.metrics.IncCircuitBreakerDropped()
		return nil
	}
	if err := t.sink.Append(ctx, event); err != nil {
		t.breaker.RecordFailure()
		t.metrics.IncPersistFailures()
		t.metrics.SetCircuitBreakerState(t.breaker.IsOpen())
		return err
	}
	t.breaker.RecordSuccess()
	t.metrics.IncTracked()
	t.metrics.SetCircuitBreakerState(false)
	return nil
}
