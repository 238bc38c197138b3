// File: poll/budget.go

package poll

import "time"

// Infinite is the timeout value meaning "no deadline".
const Infinite = -1

// Budget tracks one timeout across a sequence of waits. Elapsed time is
// deducted cumulatively, so a multi-step operation (one ReadLine fetching
// many bytes) observes a single overall deadline rather than a fresh one
// per step.
type Budget struct {
	totalMs int
	start   time.Time
}

// NewBudget starts a budget of timeoutMs milliseconds. Infinite (-1) never
// expires.
func NewBudget(timeoutMs int) Budget {
	return Budget{totalMs: timeoutMs, start: time.Now()}
}

// Remaining returns the milliseconds left, Infinite for an unbounded
// budget, and 0 once the budget is exhausted.
func (b Budget) Remaining() int {
	if b.totalMs < 0 {
		return Infinite
	}
	elapsed := int(time.Since(b.start) / time.Millisecond)
	if elapsed >= b.totalMs {
		return 0
	}
	return b.totalMs - elapsed
}

// Expired reports whether a bounded budget has run out.
func (b Budget) Expired() bool {
	return b.totalMs >= 0 && b.Remaining() == 0
}
