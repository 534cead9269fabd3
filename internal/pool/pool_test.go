package pool

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/domain"
)

func newSeededPool(t *testing.T, size int) *Pool {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 1024)) //nolint:gosec // deterministic test source
	p, err := NewWithRand(size, rng.IntN)
	require.NoError(t, err)
	return p
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(-3)
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	p := newSeededPool(t, domain.DefaultSegmentCount)

	assert.False(t, p.Contains(0))
	assert.True(t, p.Contains(1))
	assert.True(t, p.Contains(30))
	assert.False(t, p.Contains(31))
	assert.Equal(t, 30, p.Size())
}

func TestAvailable(t *testing.T) {
	p := newSeededPool(t, 6)

	tests := []struct {
		name     string
		owned    []int
		expected []int
	}{
		{"nothing owned", nil, []int{1, 2, 3, 4, 5, 6}},
		{"some owned", []int{2, 5}, []int{1, 3, 4, 6}},
		{"unsorted owned", []int{6, 1, 3}, []int{2, 4, 5}},
		{"everything owned", []int{1, 2, 3, 4, 5, 6}, []int{}},
		{"out of range ignored", []int{0, 7, 99, 4}, []int{1, 2, 3, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Available(tt.owned))
		})
	}
}

func TestIsComplete(t *testing.T) {
	p := newSeededPool(t, 3)

	assert.False(t, p.IsComplete([]int{1, 2}))
	assert.True(t, p.IsComplete([]int{3, 1, 2}))
}

func TestSampleOne_EmptyPoolIsExhausted(t *testing.T) {
	p := newSeededPool(t, 30)

	_, err := p.SampleOne([]int{})
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)
}

func TestSampleOne_ReturnsMemberOfAvailable(t *testing.T) {
	p := newSeededPool(t, 30)
	available := []int{4, 9, 17}

	for i := 0; i < 200; i++ {
		n, err := p.SampleOne(available)
		require.NoError(t, err)
		assert.Contains(t, available, n)
	}
}

func TestSampleOne_RoughlyUniform(t *testing.T) {
	p := newSeededPool(t, 30)
	available := []int{1, 2, 3, 4, 5}
	counts := make(map[int]int)

	const draws = 50000
	for i := 0; i < draws; i++ {
		n, err := p.SampleOne(available)
		require.NoError(t, err)
		counts[n]++
	}

	expected := draws / len(available)
	for _, n := range available {
		assert.InDelta(t, expected, counts[n], float64(expected)*0.05, "segment %d drawn %d times", n, counts[n])
	}
}

func TestSampleMany(t *testing.T) {
	p := newSeededPool(t, 30)
	available := p.Available([]int{1, 2, 3})

	t.Run("exact count of distinct members", func(t *testing.T) {
		picked := p.SampleMany(available, 5)
		require.Len(t, picked, 5)

		seen := make(map[int]bool)
		for _, n := range picked {
			assert.Contains(t, available, n)
			assert.False(t, seen[n], "duplicate %d", n)
			seen[n] = true
		}
		assert.IsIncreasing(t, picked)
	})

	t.Run("count larger than available takes everything", func(t *testing.T) {
		picked := p.SampleMany(available, 100)
		assert.Equal(t, available, picked)
	})

	t.Run("zero or negative count", func(t *testing.T) {
		assert.Empty(t, p.SampleMany(available, 0))
		assert.Empty(t, p.SampleMany(available, -2))
	})

	t.Run("empty available", func(t *testing.T) {
		assert.Empty(t, p.SampleMany(nil, 3))
	})

	t.Run("input is left untouched", func(t *testing.T) {
		in := []int{10, 11, 12, 13, 14}
		before := append([]int(nil), in...)
		p.SampleMany(in, 3)
		assert.Equal(t, before, in)
	})
}
