package incident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/license/models"
)

func newTestIncident(t *testing.T, key string) *models.Incident {
	t.Helper()
	inc, err := models.NewIncident(key, models.IncidentExcessiveChecks, models.SeverityHigh,
		"too many checks", "198.51.100.1", time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	return inc
}

func TestRingBuffer(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		b := NewRingBuffer(4)
		for _, k := range []string{"a", "b", "c"} {
			assert.False(t, b.Enqueue(newTestIncident(t, k)))
		}
		batch := b.DequeueBatch(2)
		require.Len(t, batch, 2)
		assert.Equal(t, "a", batch[0].LicenseKey)
		assert.Equal(t, "b", batch[1].LicenseKey)
		assert.Equal(t, 1, b.Len())
	})

	t.Run("full buffer drops oldest", func(t *testing.T) {
		b := NewRingBuffer(2)
		b.Enqueue(newTestIncident(t, "a"))
		b.Enqueue(newTestIncident(t, "b"))
		assert.True(t, b.Enqueue(newTestIncident(t, "c")))

		batch := b.DequeueBatch(10)
		require.Len(t, batch, 2)
		assert.Equal(t, "b", batch[0].LicenseKey)
		assert.Equal(t, "c", batch[1].LicenseKey)
		assert.Equal(t, int64(1), b.Dropped())
	})

	t.Run("empty dequeue", func(t *testing.T) {
		assert.Nil(t, NewRingBuffer(1).DequeueBatch(5))
	})
}
