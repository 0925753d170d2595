// Package random draws match seeds when none is given on the command line.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// NewSeed returns a non-negative seed read from crypto/rand, so that it
// can be printed and passed back through -seed to replay the match.
func NewSeed() (int64, error) {
	return seedFrom(crand.Reader)
}

func seedFrom(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) & math.MaxInt64), nil
}
