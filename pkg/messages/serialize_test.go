package messages

import (
	"encoding/json"
	"testing"

	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	tests := []struct {
		name        string
		messageType MessageType
		payload     interface{}
	}{
		{
			name:        "ping without payload",
			messageType: MessageTypeClientPing,
		},
		{
			name:        "flip started",
			messageType: MessageTypeServerFlipStarted,
			payload:     &ServerFlipStarted{Outcome: flip.OutcomeTails},
		},
		{
			name:        "history",
			messageType: MessageTypeServerHistory,
			payload: &ServerHistory{
				Records: []flip.Record{
					{Sequence: 2, Outcome: flip.OutcomeTails, Timestamp: "12:00:02"},
					{Sequence: 1, Outcome: flip.OutcomeHeads, Timestamp: "12:00:00"},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage("session-1", tt.messageType, 1718000000000, tt.payload)
			require.NoError(t, err)

			b, err := SerializeMessage(msg)
			require.NoError(t, err)

			got, err := DeserializeMessage(b)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
		})
	}
}

func TestDeserializeHistoryPayload(t *testing.T) {
	records := []flip.Record{{Sequence: 1, Outcome: flip.OutcomeHeads, Timestamp: "08:15:00"}}
	msg, err := NewMessage("s", MessageTypeServerHistory, 0, &ServerHistory{Records: records})
	require.NoError(t, err)

	b, err := SerializeMessage(msg)
	require.NoError(t, err)
	got, err := DeserializeMessage(b)
	require.NoError(t, err)

	history := &ServerHistory{}
	require.NoError(t, json.Unmarshal(got.Payload, history))
	assert.Equal(t, records, history.Records)
}

func TestDeserializeMessage_Garbage(t *testing.T) {
	_, err := DeserializeMessage([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestDeserializeMessageFlatbuffer_TooShort(t *testing.T) {
	_, err := DeserializeMessageFlatbuffer([]byte{1})
	assert.Error(t, err)
}

func TestMessageType_String(t *testing.T) {
	assert.Equal(t, "flip_result", MessageTypeServerFlipResult.String())
	assert.Equal(t, "unknown", MessageType(0).String())
}
