package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserChannelRoundTrip(t *testing.T) {
	channel := userChannel(42)
	assert.Equal(t, "messages:user:42", channel)

	userID, err := parseUserChannel(channel)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseUserChannel_Garbage(t *testing.T) {
	_, err := parseUserChannel("messages:user:abc")
	assert.Error(t, err)
}
