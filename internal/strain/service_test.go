package strain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenforge/internal/strain/models"
	"greenforge/internal/strain/store"
	dErrors "greenforge/pkg/domain-errors"
)

type failingStore struct{}

func (failingStore) ListNames(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) FindVariants(context.Context, string) ([]models.Variant, error) {
	return nil, errors.New("connection refused")
}

func TestService(t *testing.T) {
	ctx := context.Background()

	_, err := New(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strain store is required")

	lib, err := store.NewDefaultStore()
	require.NoError(t, err)
	svc, err := New(lib)
	require.NoError(t, err)

	t.Run("known strain", func(t *testing.T) {
		variants, err := svc.Variants(ctx, "Jack Herer")
		require.NoError(t, err)
		assert.Len(t, variants, 3)
	})

	t.Run("unknown strain is not found", func(t *testing.T) {
		_, err := svc.Variants(ctx, "Unknown Kush")
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		broken, err := New(failingStore{})
		require.NoError(t, err)

		_, err = broken.ListNames(ctx)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
		_, err = broken.Variants(ctx, "ACDC")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
	})
}
