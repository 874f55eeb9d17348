package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeterministic(t *testing.T) {
	a, seedA := New(42)
	b, seedB := New(42)
	assert.Equal(t, int64(42), seedA)
	assert.Equal(t, seedA, seedB)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestNewFreshSeed(t *testing.T) {
	_, seed := New(0)
	assert.NotZero(t, seed)
	assert.NotZero(t, NewSeed())
}

func TestRange(t *testing.T) {
	rng, _ := New(7)
	for i := 0; i < 200; i++ {
		v := Range(rng, -2, 1)
		assert.GreaterOrEqual(t, v, -2)
		assert.Less(t, v, 1)
	}
	assert.Equal(t, 5, Range(rng, 5, 5))
}

func TestChanceBounds(t *testing.T) {
	rng, _ := New(7)
	for i := 0; i < 50; i++ {
		assert.False(t, Chance(rng, 0))
		assert.True(t, Chance(rng, 1))
	}
}

func TestShufflePick(t *testing.T) {
	rng, _ := New(3)
	s := []int{1, 2, 3, 4, 5, 6}
	Shuffle(rng, s)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, s)

	v, i := Pick(rng, s)
	assert.Equal(t, s[i], v)
}
