package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampMarshalJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)

	assert.Equal(t, `"2025-01-15T10:30:00.000Z"`, string(data))
}

func TestTimestampMarshalJSON_KeepsOffset(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := NewTimestamp(time.Date(2025, 1, 15, 10, 30, 0, 500_000_000, loc))

	data, err := json.Marshal(ts)
	require.NoError(t, err)

	assert.Equal(t, `"2025-01-15T10:30:00.500+01:00"`, string(data))
}

func TestTimestampUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "millisecond layout",
			input: `"2025-01-15T10:30:00.250+00:00"`,
			want:  time.Date(2025, 1, 15, 10, 30, 0, 250_000_000, time.UTC),
		},
		{
			name:  "plain rfc3339",
			input: `"2025-01-15T10:30:00Z"`,
			want:  time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))

			assert.True(t, ts.Equal(tt.want), "got %s, want %s", ts.Time, tt.want)
		})
	}
}

func TestTimestampUnmarshalJSON_Null(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))

	assert.True(t, ts.IsZero())
}

func TestTimestampUnmarshalJSON_Garbage(t *testing.T) {
	var ts Timestamp

	assert.Error(t, json.Unmarshal([]byte(`"not-a-time"`), &ts))
	assert.Error(t, ts.UnmarshalJSON([]byte(`12345`)))
}

func TestMessageRoundTripKeepsWireNames(t *testing.T) {
	appID := int64(15)
	msg := Message{
		ID:            "b4b03119-1290-44bc-b599-6a5e91d6611f",
		SenderID:      1,
		ReceiverID:    2,
		Content:       "hello",
		IsRead:        false,
		SentAt:        NewTimestamp(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)),
		ApplicationID: &appID,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "b4b03119-1290-44bc-b599-6a5e91d6611f", decoded["id"])
	assert.Equal(t, float64(1), decoded["senderId"])
	assert.Equal(t, float64(2), decoded["receiverId"])
	assert.Equal(t, false, decoded["isRead"])
	assert.Equal(t, "2025-01-15T10:30:00.000Z", decoded["sentAt"])
	assert.Equal(t, float64(15), decoded["applicationId"])
}

func TestMessageOmitsAbsentApplicationID(t *testing.T) {
	msg := Message{SentAt: NewTimestamp(time.Now())}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	_, ok := decoded["applicationId"]
	assert.False(t, ok)
}
