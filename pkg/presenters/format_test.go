package presenters

import (
	"testing"

	"github.com/cbodonnell/coinflip/pkg/flip"
	"github.com/stretchr/testify/assert"
)

func TestFormatRecord(t *testing.T) {
	tests := []struct {
		record flip.Record
		want   string
	}{
		{record: flip.Record{Sequence: 1, Outcome: flip.OutcomeHeads, Timestamp: "09:05:07"}, want: "#1 HEADS 09:05:07"},
		{record: flip.Record{Sequence: 12, Outcome: flip.OutcomeTails, Timestamp: "23:59:59"}, want: "#12 TAILS 23:59:59"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRecord(tt.record))
	}
}

func TestFormatTally(t *testing.T) {
	assert.Equal(t, "Heads: 0  Tails: 0  Total: 0", FormatTally(0, 0, 0))
	assert.Equal(t, "Heads: 3  Tails: 2  Total: 5", FormatTally(3, 2, 5))
}
