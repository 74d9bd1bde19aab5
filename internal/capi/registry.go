package capi

import (
	"sync"

	"github.com/bridgetools/bba-go/pkg/bba"
)

type handle uintptr

var (
	mu   sync.Mutex
	next handle = 1
	reg         = map[handle]*bba.Instance{}
)

func put(inst *bba.Instance) handle {
	mu.Lock()
	h := next
	next++
	reg[h] = inst
	mu.Unlock()
	return h
}

func get(h handle) (*bba.Instance, bool) {
	mu.Lock()
	inst, ok := reg[h]
	mu.Unlock()
	return inst, ok
}

func del(h handle) (*bba.Instance, bool) {
	mu.Lock()
	inst, ok := reg[h]
	if ok {
		delete(reg, h)
	}
	mu.Unlock()
	return inst, ok
}
