package bba

import (
	"testing"
)

func TestLastErrorPerGoroutine(t *testing.T) {
	ClearLastError()
	recordFailure("main goroutine failure")

	done := make(chan string)
	go func() {
		// A fresh goroutine starts with an empty slot and writes of its
		// own must not leak back.
		before := LastError()
		recordFailure("worker failure")
		done <- before + "|" + LastError()
	}()
	got := <-done
	if got != "|worker failure" {
		t.Fatalf("worker goroutine saw %q", got)
	}
	if got := LastError(); got != "main goroutine failure" {
		t.Fatalf("main goroutine slot = %q, want its own failure", got)
	}
}

func TestClearLastError(t *testing.T) {
	recordFailure("stale")
	ClearLastError()
	if got := LastError(); got != "" {
		t.Fatalf("LastError after clear = %q, want empty", got)
	}
}

func TestGoroutineIDStable(t *testing.T) {
	a, b := goroutineID(), goroutineID()
	if a == 0 {
		t.Fatal("goroutineID returned 0")
	}
	if a != b {
		t.Fatalf("goroutineID not stable within a goroutine: %d then %d", a, b)
	}
	other := make(chan uint64, 1)
	go func() { other <- goroutineID() }()
	if o := <-other; o == a {
		t.Fatalf("distinct goroutines share id %d", o)
	}
}
