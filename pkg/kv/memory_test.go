package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "user:1")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte(`{"userId":"1"}`)
	require.NoError(t, s.Put(ctx, "user:1", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, `{"userId":"1"}`, string(got))

	require.NoError(t, s.Delete(ctx, "user:1"))
	_, err = s.Get(ctx, "user:1")
	assert.ErrorIs(t, err, ErrNotFound)
}
