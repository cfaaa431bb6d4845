package signing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/license/models"
	dErrors "licenseguard/pkg/domain-errors"
)

func TestSigner(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := &models.Payload{
		LicenseKey:           "LIC-1",
		ProductID:            "plugin-pro",
		RemainingActivations: 2,
		Features:             []string{"updates", "support"},
		ServerTime:           now,
		NextCheckTime:        now.Add(24 * time.Hour),
	}

	signer, err := New([]byte("signing-key"), "licenseguard")
	require.NoError(t, err)

	token, err := signer.Sign("example.com", payload)
	require.NoError(t, err)

	t.Run("round trip before next check", func(t *testing.T) {
		claims, err := signer.Verify(token, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "LIC-1", claims.LicenseKey)
		assert.Equal(t, "example.com", claims.Domain)
		assert.Equal(t, 2, claims.RemainingActivations)
		assert.Equal(t, []string{"updates", "support"}, claims.Features)
	})

	t.Run("expired after next check", func(t *testing.T) {
		_, err := signer.Verify(token, now.Add(25*time.Hour))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("other key rejects", func(t *testing.T) {
		other, err := New([]byte("other-key"), "licenseguard")
		require.NoError(t, err)
		_, err = other.Verify(token, now)
		assert.Error(t, err)
	})

	t.Run("empty key rejected at construction", func(t *testing.T) {
		_, err := New(nil, "licenseguard")
		assert.Error(t, err)
	})
}
