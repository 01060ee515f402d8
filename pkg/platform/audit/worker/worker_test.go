package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "greenforge/pkg/platform/audit"
	"greenforge/pkg/platform/audit/store/memory"
)

type flakyStore struct {
	inner *memory.InMemoryStore
	fail  int
}

func (f *flakyStore) Append(ctx context.Context, e audit.Event) error {
	if f.fail > 0 {
		f.fail--
		return errors.New("broker unavailable")
	}
	return f.inner.Append(ctx, e)
}

func TestWorkerDrainsUntilInboxClosed(t *testing.T) {
	store := &flakyStore{inner: memory.NewInMemoryStore(), fail: 1}
	inbox := make(chan audit.Event, 3)
	inbox <- audit.Event{Action: audit.ActionRecommendationScored, TopProduct: "a"}
	inbox <- audit.Event{Action: audit.ActionRecommendationScored, TopProduct: "b"}
	inbox <- audit.Event{Action: audit.ActionRecommendationScored, TopProduct: "c"}
	close(inbox)

	w := NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, w.Run(context.Background()))

	events, err := store.inner.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].TopProduct)
	assert.Equal(t, "c", events[1].TopProduct)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(memory.NewInMemoryStore(), make(chan audit.Event), nil)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
