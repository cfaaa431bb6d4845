package restriction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"licenseguard/internal/license/models"
)

type InMemoryStoreSuite struct {
	storeSuite
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
}

func TestInMemoryStore_ConcurrentRestrictKeepsMax(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Restrict(ctx, "LIC-C", models.RestrictionBlock, base.Add(time.Duration(i)*time.Minute))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := store.Get(ctx, "LIC-C")
	require.NoError(t, err)
	require.NotNil(t, state.BlockedUntil)
	assert.True(t, state.BlockedUntil.Equal(base.Add(49*time.Minute)))
}
