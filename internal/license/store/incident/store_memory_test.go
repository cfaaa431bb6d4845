package incident

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/license/models"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, key := range []string{"LIC-A", "LIC-B", "LIC-A", "LIC-A"} {
		inc, err := models.NewIncident(key, models.IncidentExcessiveChecks, models.SeverityHigh,
			"checks", "198.51.100.1", base.Add(time.Duration(i)*time.Minute), map[string]any{"count": i})
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, inc))
	}

	t.Run("newest first with limit", func(t *testing.T) {
		got, err := store.ListByLicense(ctx, "LIC-A", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 3, got[0].AdditionalData["count"])
		assert.Equal(t, 2, got[1].AdditionalData["count"])
	})

	t.Run("no limit", func(t *testing.T) {
		got, err := store.ListByLicense(ctx, "LIC-A", 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("all keeps append order", func(t *testing.T) {
		all := store.All()
		require.Len(t, all, 4)
		assert.Equal(t, "LIC-B", all[1].LicenseKey)
	})
}
