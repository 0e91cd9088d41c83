package random

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestCryptoSource_Range(t *testing.T) {
	s, err := NewCryptoSource()
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		v := s.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestCryptoSource_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		want  float64
	}{
		{
			name:  "zero",
			bytes: []byte{0, 0, 0, 0},
			want:  0,
		},
		{
			name:  "half",
			bytes: []byte{0, 0, 0, 0x80},
			want:  0.5,
		},
		{
			name:  "max stays below one",
			bytes: []byte{0xff, 0xff, 0xff, 0xff},
			want:  float64(0xffffffff) / uint32Range,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the constructor consumes one probe sample
			r := bytes.NewReader(append([]byte{0, 0, 0, 0}, tt.bytes...))
			s, err := NewCryptoSourceFromReader(r)
			require.NoError(t, err)

			got := s.Next()
			assert.Equal(t, tt.want, got)
			assert.Less(t, got, 1.0)
		})
	}
}

func TestCryptoSource_Fairness(t *testing.T) {
	s, err := NewCryptoSource()
	require.NoError(t, err)

	const n = 100000
	heads := 0
	for i := 0; i < n; i++ {
		if s.Next() < 0.5 {
			heads++
		}
	}
	// more than 10 standard deviations away from n/2 would be a broken source
	assert.InDelta(t, n/2, heads, 1600)
}

func TestNewCryptoSourceFromReader_Error(t *testing.T) {
	_, err := NewCryptoSourceFromReader(failingReader{})
	assert.Error(t, err)
}

func TestCryptoSource_PanicsOnFailure(t *testing.T) {
	s := &CryptoSource{reader: failingReader{}}
	assert.Panics(t, func() { s.Next() })
}
