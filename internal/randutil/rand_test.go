package randutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(52), b.IntN(52))
	}
}

func TestNewDiffersBySeed(t *testing.T) {
	a, b := New(1), New(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Uint64() != b.Uint64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestSeed(t *testing.T) {
	now := time.Unix(0, 1234)
	assert.Equal(t, int64(99), Seed(99, now))
	assert.Equal(t, int64(1234), Seed(0, now))
}
