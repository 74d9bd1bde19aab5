package capi

import "github.com/bridgetools/bba-go/pkg/bba"

// fillString copies s into dst as a NUL-terminated C string. The buffer is
// caller-owned and caller-sized: an undersized buffer is reported as an
// out-of-memory condition, never overflowed.
func fillString(dst []byte, s string) bba.Code {
	if len(s)+1 > len(dst) {
		return bba.CodeOutOfMemory
	}
	n := copy(dst, s)
	dst[n] = 0
	return bba.CodeOK
}
