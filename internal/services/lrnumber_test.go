package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

func sequenceGenerator(suffixes ...string) *LRGenerator {
	i := 0
	return &LRGenerator{
		now: func() time.Time { return time.UnixMilli(36 * 36 * 36) },
		suffix: func() (string, error) {
			s := suffixes[i%len(suffixes)]
			i++
			return s, nil
		},
	}
}

func TestLRGenerator_Format(t *testing.T) {
	lr, err := NewLRGenerator().Next()
	require.NoError(t, err)
	assert.Regexp(t, `^LR-[0-9A-Z]+-[0-9A-Z]{4}$`, lr)

	lr, err = sequenceGenerator("AB12").Next()
	require.NoError(t, err)
	assert.Equal(t, "LR-1000-AB12", lr)
}

func TestLRGenerator_UniqueRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateBilty(ctx, &models.Bilty{BookingID: models.NewID(), LRNumber: "LR-1000-AAAA"}))

	lr, err := sequenceGenerator("AAAA", "BBBB").Unique(ctx, store, "", "")
	require.NoError(t, err)
	assert.Equal(t, "LR-1000-BBBB", lr)
}

func TestLRGenerator_UniquePreferred(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	owner := &models.Bilty{BookingID: models.NewID(), LRNumber: "LR-TAKEN"}
	require.NoError(t, store.CreateBilty(ctx, owner))
	gen := sequenceGenerator("CCCC")

	lr, err := gen.Unique(ctx, store, "  lr-fresh ", "")
	require.NoError(t, err)
	assert.Equal(t, "LR-FRESH", lr)

	lr, err = gen.Unique(ctx, store, "LR-TAKEN", "")
	require.NoError(t, err)
	assert.Equal(t, "LR-1000-CCCC", lr)

	lr, err = gen.Unique(ctx, store, "LR-TAKEN", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "LR-TAKEN", lr)
}

func TestLRGenerator_UniqueGivesUp(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateBilty(ctx, &models.Bilty{BookingID: models.NewID(), LRNumber: "LR-1000-ZZZZ"}))

	_, err := sequenceGenerator("ZZZZ").Unique(ctx, store, "", "")
	assert.True(t, IsKind(err, KindConflict))
}
