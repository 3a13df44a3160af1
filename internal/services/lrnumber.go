package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
	"github.com/Ananth-NQI/fleetiva-backend/internal/utils"
)

const maxLRAttempts = 25

// LRGenerator produces lorry receipt numbers: LR-<base36 millis>-<4 random>.
type LRGenerator struct {
	now    func() time.Time
	suffix func() (string, error)
}

// NewLRGenerator uses the wall clock and crypto/rand.
func NewLRGenerator() *LRGenerator {
	return &LRGenerator{
		now:    time.Now,
		suffix: func() (string, error) { return utils.RandomBase36(4) },
	}
}

// Next returns a candidate LR number. It does not check for collisions.
func (g *LRGenerator) Next() (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LR-%s-%s", utils.Base36Millis(g.now()), suffix), nil
}

// Unique returns preferred, trimmed but with its casing kept, when no bilty other than
// ownerID uses it, and otherwise a freshly generated number that is free.
func (g *LRGenerator) Unique(ctx context.Context, store storage.Store, preferred, ownerID string) (string, error) {
	next := strings.TrimSpace(preferred)
	for attempt := 0; attempt < maxLRAttempts; attempt++ {
		if next == "" {
			var err error
			if next, err = g.Next(); err != nil {
				return "", err
			}
		}

		existing, err := store.GetBiltyByLRNumber(ctx, next)
		if errors.Is(err, storage.ErrNotFound) {
			return next, nil
		}
		if err != nil {
			return "", err
		}
		if ownerID != "" && existing.ID == ownerID {
			return next, nil
		}
		next = ""
	}
	return "", Conflict("Could not allocate a unique LR number.")
}
