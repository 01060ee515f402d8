package ops

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "greenforge/pkg/platform/audit"
	"greenforge/pkg/platform/audit/store/memory"
	"greenforge/pkg/requestcontext"
)

func TestSampler(t *testing.T) {
	t.Run("rates are clamped", func(t *testing.T) {
		assert.True(t, NewSampler(7).ShouldSample(audit.ActionRecommendationScored))
		assert.False(t, NewSampler(-1).ShouldSample(audit.ActionRecommendationScored))
	})

	t.Run("fractional rate compares against the draw", func(t *testing.T) {
		s := NewSampler(0.25)
		s.draw = func() float64 { return 0.2 }
		assert.True(t, s.ShouldSample(audit.ActionRecommendationScored))
		s.draw = func() float64 { return 0.3 }
		assert.False(t, s.ShouldSample(audit.ActionRecommendationScored))
	})

	t.Run("per-action override", func(t *testing.T) {
		s := NewSampler(1)
		s.SetRate(audit.ActionRecommendationScored, 0)
		assert.False(t, s.ShouldSample(audit.ActionRecommendationScored))
		assert.True(t, s.ShouldSample("other"))
	})
}

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.True(t, cb.Allow())
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.False(t, cb.Allow())

	now = now.Add(2 * time.Minute)
	assert.True(t, cb.Allow(), "half-open after cooldown")

	cb.RecordFailure()
	assert.True(t, cb.IsOpen(), "one failure while half-open reopens")

	now = now.Add(2 * time.Minute)
	require.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
	calls  int
}

func (r *recordingSink) Append(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTracker(t *testing.T) {
	t.Run("delivers prepared events and drains on close", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		tr := NewTracker(store, WithLogger(quietLogger()))

		fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), fixed), "req-1")
		for i := 0; i < 5; i++ {
			require.NoError(t, tr.Emit(ctx, audit.Event{Action: audit.ActionRecommendationScored}))
		}
		tr.Close()

		events, err := store.ListRecent(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, fixed, events[0].Timestamp)
		assert.NotEqual(t, events[0].ID, events[1].ID)
	})

	t.Run("sampled-out events never reach the sink", func(t *testing.T) {
		sink := &recordingSink{}
		tr := NewTracker(sink, WithSampler(NewSampler(0)), WithLogger(quietLogger()))
		require.NoError(t, tr.Emit(context.Background(), audit.Event{Action: audit.ActionRecommendationScored}))
		tr.Close()
		assert.Equal(t, 0, sink.calls)
	})

	t.Run("sink failures open the breaker and later events are dropped", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("broker down")}
		tr := NewTracker(sink,
			WithCircuitBreaker(NewCircuitBreaker(2, time.Hour)),
			WithLogger(quietLogger()),
		)
		for i := 0; i < 5; i++ {
			require.NoError(t, tr.Emit(context.Background(), audit.Event{Action: audit.ActionRecommendationScored}))
		}
		tr.Close()
		assert.Equal(t, 2, sink.calls)
	})

	t.Run("full buffer drops without blocking", func(t *testing.T) {
		block := make(chan struct{})
		sink := blockingSink{release: block}
		tr := NewTracker(sink, WithBufferSize(1), WithLogger(quietLogger()))

		done := make(chan struct{})
		go func() {
			for i := 0; i < 20; i++ {
				_ = tr.Emit(context.Background(), audit.Event{Action: audit.ActionRecommendationScored})
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Emit blocked on a full buffer")
		}
		close(block)
		tr.Close()
	})
}

type blockingSink struct {
	release chan struct{}
}

func (b blockingSink) Append(context.Context, audit.Event) error {
	<-b.release
	return nil
}
