package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termimage/backend/internal/metrics"
)

func TestInstrument_CountsCallsByResult(t *testing.T) {
	const backend = "instrumented-test"
	s := Instrument(NewMemoryStore(), backend)
	ctx := context.Background()

	okSet := metrics.StoreOperations.WithLabelValues(backend, "set", "ok")
	failedSet := metrics.StoreOperations.WithLabelValues(backend, "set", "error")
	gets := metrics.StoreOperations.WithLabelValues(backend, "get", "ok")

	require.NoError(t, s.Set(ctx, 1, 10))
	assert.Error(t, s.Set(ctx, 1, 0))
	imageID, ok, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, 1))
	_, err = s.GetMany(ctx, []uint{1})
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, uint(10), imageID)
	assert.Equal(t, 1.0, testutil.ToFloat64(okSet))
	assert.Equal(t, 1.0, testutil.ToFloat64(failedSet))
	assert.Equal(t, 1.0, testutil.ToFloat64(gets))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues(backend, "remove", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues(backend, "get_many", "ok")))
}
