package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder captures failures instead of failing the enclosing test
type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...any) {
	r.failed = true
}

func TestCheck_PassesWhenWorkersExit(t *testing.T) {
	CheckNoGoroutineLeak(t, 0, func() {
		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(5 * time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

func TestCheck_WaitsForSlowExit(t *testing.T) {
	checker := NewGoroutineChecker(t)

	go time.Sleep(100 * time.Millisecond)

	checker.Check(0)
}

func TestCheck_ReportsStuckGoroutine(t *testing.T) {
	rec := &recorder{TB: t}
	checker := NewGoroutineChecker(rec)
	checker.timeout = 50 * time.Millisecond

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(0)
	assert.True(t, rec.failed)
}

func TestCheck_ToleranceAllowsStragglers(t *testing.T) {
	rec := &recorder{TB: t}
	checker := NewGoroutineChecker(rec)
	checker.timeout = 50 * time.Millisecond

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(1)
	assert.False(t, rec.failed)
}
