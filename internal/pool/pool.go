// Package pool models the fixed universe of collectible map segments.
//
// A Pool is pure: it never touches storage. Callers pass in the segments a
// profile already owns and get back what is still available, then draw
// uniformly from that set.
package pool

import (
	"fmt"
	"sort"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/utils"
)

// Pool is the segment universe [1, Size]
type Pool struct {
	size int
	intn func(n int) int
}

// New creates a pool of size segments drawing from the shared random source
func New(size int) (*Pool, error) {
	return NewWithRand(size, func(n int) int { return utils.RandomInt(0, n-1) })
}

// NewWithRand creates a pool that draws indexes with intn, which must return
// a value in [0, n). Tests pass a seeded source here.
func NewWithRand(size int, intn func(n int) int) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidSizeFmt, size)
	}
	return &Pool{size: size, intn: intn}, nil
}

// Size returns the number of segments in the universe
func (p *Pool) Size() int {
	return p.size
}

// Contains reports whether number is a valid segment of this pool
func (p *Pool) Contains(number int) bool {
	return number >= 1 && number <= p.size
}

// Available returns [1, Size] minus owned, ascending. Owned numbers outside
// the universe are ignored.
func (p *Pool) Available(owned []int) []int {
	taken := make(map[int]struct{}, len(owned))
	for _, n := range owned {
		taken[n] = struct{}{}
	}

	available := make([]int, 0, p.size-len(taken))
	for n := 1; n <= p.size; n++ {
		if _, ok := taken[n]; !ok {
			available = append(available, n)
		}
	}
	return available
}

// IsComplete reports whether owned covers the whole universe
func (p *Pool) IsComplete(owned []int) bool {
	return len(p.Available(owned)) == 0
}

// SampleOne draws one segment uniformly from available
func (p *Pool) SampleOne(available []int) (int, error) {
	if len(available) == 0 {
		return 0, domain.ErrPoolExhausted
	}
	return available[p.intn(len(available))], nil
}

// SampleMany draws min(count, len(available)) distinct segments uniformly
// without replacement. available is not modified. The result is sorted.
func (p *Pool) SampleMany(available []int, count int) []int {
	if count <= 0 || len(available) == 0 {
		return []int{}
	}
	if count > len(available) {
		count = len(available)
	}

	// Partial Fisher-Yates over a private copy
	shuffled := make([]int, len(available))
	copy(shuffled, available)
	for i := 0; i < count; i++ {
		j := i + p.intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	picked := shuffled[:count]
	sort.Ints(picked)
	return picked
}
