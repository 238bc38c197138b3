// File: poll/budget_test.go

package poll

import (
	"testing"
	"time"
)

func TestBudgetInfinite(t *testing.T) {
	b := NewBudget(Infinite)
	if got := b.Remaining(); got != Infinite {
		t.Fatalf("Remaining() = %d, want Infinite", got)
	}
	if b.Expired() {
		t.Fatal("infinite budget reported expired")
	}
}

func TestBudgetCountsDown(t *testing.T) {
	b := NewBudget(200)
	first := b.Remaining()
	if first <= 0 || first > 200 {
		t.Fatalf("Remaining() = %d, want within (0,200]", first)
	}
	time.Sleep(30 * time.Millisecond)
	second := b.Remaining()
	if second >= first {
		t.Fatalf("budget did not shrink: %d -> %d", first, second)
	}
}

func TestBudgetExpires(t *testing.T) {
	b := NewBudget(10)
	time.Sleep(25 * time.Millisecond)
	if got := b.Remaining(); got != 0 {
		t.Fatalf("Remaining() = %d, want 0", got)
	}
	if !b.Expired() {
		t.Fatal("exhausted budget not reported expired")
	}
}

func TestBudgetZero(t *testing.T) {
	b := NewBudget(0)
	if got := b.Remaining(); got != 0 {
		t.Fatalf("Remaining() = %d, want 0", got)
	}
	if !b.Expired() {
		t.Fatal("zero budget should be expired immediately")
	}
}
