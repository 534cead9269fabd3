// Package leaktest fails a test that leaves goroutines running after it.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	// SettleTimeout is how long Check waits for goroutines to exit
	SettleTimeout = time.Second
	pollInterval  = 10 * time.Millisecond
)

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), timeout: SettleTimeout}
}

// Check waits until at most tolerance goroutines above the baseline remain.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	if after, ok := settle(g.before+tolerance, g.timeout); !ok {
		g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", g.before, after, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails t if more than tolerance goroutines outlive it
func CheckNoGoroutineLeak(t testing.TB, tolerance int, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(tolerance)
}

// settle polls until the goroutine count drops to target or timeout passes.
// It returns the last count seen.
func settle(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
