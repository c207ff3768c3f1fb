package token

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	playerID := uuid.New()

	signed, err := GenerateJWT(playerID, "organizer", testSecret, 5)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ValidateJWT(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, playerID, claims.PlayerID)
	assert.Equal(t, "organizer", claims.Role)
}

func TestValidateJWTRejections(t *testing.T) {
	playerID := uuid.New()

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := GenerateJWT(playerID, "player", testSecret, 5)
		require.NoError(t, err)

		_, err = ValidateJWT(signed, "some-other-secret")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		signed, err := GenerateJWT(playerID, "player", testSecret, -1)
		require.NoError(t, err)

		_, err = ValidateJWT(signed, testSecret)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("missing player id claim", func(t *testing.T) {
		signed, err := GenerateJWT(uuid.Nil, "player", testSecret, 5)
		require.NoError(t, err)

		_, err = ValidateJWT(signed, testSecret)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "player_id")
	})

	t.Run("empty inputs", func(t *testing.T) {
		_, err := ValidateJWT("", testSecret)
		assert.Error(t, err)

		_, err = GenerateJWT(playerID, "player", "", 5)
		assert.Error(t, err)
	})
}
