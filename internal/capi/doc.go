// Package capi adapts the bba facade to a flat C calling convention for
// c-shared builds.
//
// Handles are small integers issued by a registry, never Go pointers.
// Every operation returns an int32 code from the bba.Code enum, writes
// results into caller-owned buffers, and records failure text in a
// per-thread error slot readable through bba_last_error. The registry and
// buffer helpers are plain Go so they stay testable without cgo; only the
// exported surface in exports.go needs it.
package capi
