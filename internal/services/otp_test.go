package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOTPStore(t *testing.T) {
	ctx := context.Background()
	mr, store := newRedisOTP(t)

	require.NoError(t, store.Save(ctx, "+911", "123456", time.Minute))
	code, err := store.Get(ctx, "+911")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "+911")
	assert.ErrorIs(t, err, ErrOTPNotFound)

	require.NoError(t, store.Save(ctx, "+912", "654321", time.Minute))
	require.NoError(t, store.Delete(ctx, "+912"))
	_, err = store.Get(ctx, "+912")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestRedisOTPStoreUnreachable(t *testing.T) {
	_, err := NewRedisOTPStore(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestMemoryOTPStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryOTPStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "+911", "111111", 10*time.Minute))
	code, err := store.Get(ctx, "+911")
	require.NoError(t, err)
	assert.Equal(t, "111111", code)

	now = now.Add(10 * time.Minute)
	_, err = store.Get(ctx, "+911")
	assert.ErrorIs(t, err, ErrOTPNotFound)

	require.NoError(t, store.Save(ctx, "+911", "222222", time.Minute))
	require.NoError(t, store.Delete(ctx, "+911"))
	_, err = store.Get(ctx, "+911")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}
