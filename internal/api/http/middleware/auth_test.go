package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserIDClaim(t *testing.T) {
	t.Run("json number", func(t *testing.T) {
		id, err := parseUserIDClaim(float64(42))
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("string", func(t *testing.T) {
		id, err := parseUserIDClaim("42")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("non-numeric string", func(t *testing.T) {
		_, err := parseUserIDClaim("not-a-number")
		assert.Error(t, err)
	})

	t.Run("unexpected type", func(t *testing.T) {
		_, err := parseUserIDClaim(nil)
		assert.Error(t, err)
	})
}
