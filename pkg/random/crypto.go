package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// uint32Range is 2^32, the number of distinct uint32 values.
const uint32Range = 1 << 32

// CryptoSource draws samples from a cryptographically secure reader.
type CryptoSource struct {
	reader io.Reader
}

// NewCryptoSource creates a source on crypto/rand and checks that it can be
// read from.
func NewCryptoSource() (*CryptoSource, error) {
	return NewCryptoSourceFromReader(rand.Reader)
}

// NewCryptoSourceFromReader creates a source reading from r.
func NewCryptoSourceFromReader(r io.Reader) (*CryptoSource, error) {
	s := &CryptoSource{reader: r}
	if _, err := s.uint32(); err != nil {
		return nil, fmt.Errorf("failed to read from random source: %v", err)
	}
	return s, nil
}

// Next returns a uniform sample in [0, 1) built from 32 random bits.
// It panics if the reader fails, since there is no fair fallback.
func (s *CryptoSource) Next() float64 {
	v, err := s.uint32()
	if err != nil {
		panic(fmt.Sprintf("random source failed: %v", err))
	}
	return float64(v) / uint32Range
}

func (s *CryptoSource) uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(s.reader, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
