package bba

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// The last-error slot keeps the message of the most recent failed operation
// so that callers holding only a numeric Code can still surface a readable
// reason. Slots are per goroutine: a failure recorded while serving one
// request is never overwritten by traffic on another. Successful operations
// leave the slot alone, exactly as the flat C surface leaves its
// thread-local buffer alone.
var lastErrors = struct {
	mu sync.RWMutex
	m  map[uint64]string
}{m: make(map[uint64]string)}

// LastError returns the message recorded by the most recent failed
// operation on the calling goroutine, or the empty string if none has
// failed yet.
func LastError() string {
	id := goroutineID()
	lastErrors.mu.RLock()
	defer lastErrors.mu.RUnlock()
	return lastErrors.m[id]
}

// ClearLastError drops the calling goroutine's slot. Long-lived worker
// goroutines that process many independent requests call this between
// requests so that a stale message is never attributed to the wrong one.
func ClearLastError() {
	id := goroutineID()
	lastErrors.mu.Lock()
	defer lastErrors.mu.Unlock()
	delete(lastErrors.m, id)
}

func recordFailure(msg string) {
	id := goroutineID()
	lastErrors.mu.Lock()
	defer lastErrors.mu.Unlock()
	lastErrors.m[id] = msg
}

// goroutineID extracts the numeric id from the first line of the caller's
// stack trace, "goroutine N [running]:". The runtime offers no direct
// accessor on purpose; the id is used only as a map key and never for
// scheduling decisions.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i > 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}
