//go:build cgo

package capi

/*
#include <stdbool.h>
#include <stdlib.h>
#include <string.h>

static _Thread_local char bba_thread_error[1024];

static void bba_store_thread_error(const char* msg) {
	if (msg == NULL) {
		bba_thread_error[0] = '\0';
		return;
	}
	strncpy(bba_thread_error, msg, sizeof(bba_thread_error)-1);
	bba_thread_error[sizeof(bba_thread_error)-1] = '\0';
}

static const char* bba_thread_error_get(void) {
	return bba_thread_error;
}
*/
import "C"

import (
	"context"
	"os"
	"sync"
	"unsafe"

	"github.com/bridgetools/bba-go/internal/engineproc"
	"github.com/bridgetools/bba-go/pkg/bba"
)

// engineHostEnv names the engine host binary bba_create launches.
const engineHostEnv = "BBA_ENGINE"

func setError(msg string) {
	cmsg := C.CString(msg)
	C.bba_store_thread_error(cmsg)
	C.free(unsafe.Pointer(cmsg))
}

func failCode(err error) C.int32_t {
	setError(err.Error())
	return C.int32_t(bba.CodeOf(err))
}

func nullHandle() C.int32_t {
	setError("null instance handle")
	return C.int32_t(bba.CodeNullHandle)
}

//export bba_create
func bba_create() C.uintptr_t {
	path := os.Getenv(engineHostEnv)
	if path == "" {
		setError(engineHostEnv + " is not set")
		return 0
	}
	eng, err := engineproc.Start(context.Background(), engineproc.Config{Path: path})
	if err != nil {
		setError(err.Error())
		return 0
	}
	inst, err := bba.New(eng)
	if err != nil {
		_ = eng.Close()
		setError(err.Error())
		return 0
	}
	return C.uintptr_t(put(inst))
}

//export bba_destroy
func bba_destroy(h C.uintptr_t) {
	if inst, ok := del(handle(h)); ok {
		_ = inst.Close()
	}
}

//export bba_last_error
func bba_last_error() *C.char {
	return C.bba_thread_error_get()
}

var (
	versionOnce sync.Once
	versionPtr  *C.char
)

//export bba_version
func bba_version() *C.char {
	versionOnce.Do(func() { versionPtr = C.CString(bba.EngineVersion()) })
	return versionPtr
}

//export bba_set_deal
func bba_set_deal(h C.uintptr_t, dealPBN *C.char) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if dealPBN == nil {
		setError("null deal string")
		return C.int32_t(bba.CodeInvalidHand)
	}
	if err := inst.SetDeal(context.Background(), C.GoString(dealPBN)); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_set_dealer
func bba_set_dealer(h C.uintptr_t, dealer C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if dealer < 0 || dealer > 3 {
		setError("dealer out of range")
		return C.int32_t(bba.CodeInvalidDealer)
	}
	if err := inst.SetDealer(context.Background(), bba.Seat(dealer)); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_set_vulnerability
func bba_set_vulnerability(h C.uintptr_t, vul C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if vul < 0 || vul > 3 {
		setError("vulnerability out of range")
		return C.int32_t(bba.CodeInvalidVulnerability)
	}
	if err := inst.SetVulnerability(context.Background(), bba.Vulnerability(vul)); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_next_bid
func bba_next_bid(h C.uintptr_t, buffer *C.char, bufferSize C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if buffer == nil || bufferSize < 1 {
		setError("invalid buffer")
		return C.int32_t(bba.CodeOutOfMemory)
	}
	call, err := inst.NextCall(context.Background())
	if err != nil {
		return failCode(err)
	}
	// The call is already part of the auction at this point. An undersized
	// buffer loses only the copy, never the call.
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buffer)), int(bufferSize))
	if code := fillString(dst, call); code != bba.CodeOK {
		setError("buffer too small")
		return C.int32_t(code)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_set_bid
func bba_set_bid(h C.uintptr_t, bidIndex C.int32_t, bid *C.char) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if bid == nil {
		setError("null bid string")
		return C.int32_t(bba.CodeBiddingFailed)
	}
	if err := inst.PutCall(context.Background(), int(bidIndex), C.GoString(bid)); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_get_bid
func bba_get_bid(h C.uintptr_t, bidIndex C.int32_t, buffer *C.char, bufferSize C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if buffer == nil || bufferSize < 1 {
		setError("invalid buffer")
		return C.int32_t(bba.CodeOutOfMemory)
	}
	call, err := inst.CallAt(int(bidIndex))
	if err != nil {
		return failCode(err)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buffer)), int(bufferSize))
	if code := fillString(dst, call); code != bba.CodeOK {
		setError("buffer too small")
		return C.int32_t(code)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_get_bid_count
func bba_get_bid_count(h C.uintptr_t, count *C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if count == nil {
		setError("null count pointer")
		return C.int32_t(bba.CodeBiddingFailed)
	}
	n, err := inst.CallCount()
	if err != nil {
		return failCode(err)
	}
	*count = C.int32_t(n)
	return C.int32_t(bba.CodeOK)
}

//export bba_clear_auction
func bba_clear_auction(h C.uintptr_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if err := inst.ResetAuction(); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_is_auction_complete
func bba_is_auction_complete(h C.uintptr_t, isComplete *C.bool) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if isComplete == nil {
		setError("null output pointer")
		return C.int32_t(bba.CodeBiddingFailed)
	}
	done, err := inst.Complete()
	if err != nil {
		return failCode(err)
	}
	*isComplete = C.bool(done)
	return C.int32_t(bba.CodeOK)
}

//export bba_load_conventions
func bba_load_conventions(h C.uintptr_t, filePath *C.char, side C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if filePath == nil {
		setError("null file path")
		return C.int32_t(bba.CodeInvalidConventionFile)
	}
	if err := inst.LoadConventions(context.Background(), C.GoString(filePath), bba.Side(side)); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}

//export bba_set_convention
func bba_set_convention(h C.uintptr_t, key *C.char, value C.int32_t, side C.int32_t) C.int32_t {
	inst, ok := get(handle(h))
	if !ok {
		return nullHandle()
	}
	if key == nil {
		setError("null convention key")
		return C.int32_t(bba.CodeEngineFault)
	}
	if err := inst.SetConvention(context.Background(), bba.Side(side), C.GoString(key), int(value)); err != nil {
		return failCode(err)
	}
	return C.int32_t(bba.CodeOK)
}
