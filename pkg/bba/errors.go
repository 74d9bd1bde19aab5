package bba

import (
	"errors"
)

// Code is the numeric result contract shared by every Instance operation and
// by the flat C surface. Zero is success; failures are negative and keep
// their values across releases, so callers on either side of the boundary
// can switch on them.
type Code int32

const (
	CodeOK                    Code = 0
	CodeNullHandle            Code = -1
	CodeInvalidHand           Code = -2
	CodeInvalidDealer         Code = -3
	CodeInvalidVulnerability  Code = -4
	CodeInvalidConventionFile Code = -5
	CodeBiddingFailed         Code = -6
	CodeEngineFault           Code = -7
	CodeOutOfMemory           Code = -8
	CodeAuctionComplete       Code = -9
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeNullHandle:
		return "null handle"
	case CodeInvalidHand:
		return "invalid hand"
	case CodeInvalidDealer:
		return "invalid dealer"
	case CodeInvalidVulnerability:
		return "invalid vulnerability"
	case CodeInvalidConventionFile:
		return "invalid convention file"
	case CodeBiddingFailed:
		return "bidding failed"
	case CodeEngineFault:
		return "engine fault"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeAuctionComplete:
		return "auction complete"
	}
	return "unknown"
}

var (
	ErrInstanceClosed        = errors.New("instance is nil or closed")
	ErrInvalidHand           = errors.New("deal is not a structurally valid PBN layout")
	ErrInvalidDealer         = errors.New("dealer must be North, East, South, or West")
	ErrInvalidVulnerability  = errors.New("vulnerability must be None, NS, EW, or Both")
	ErrInvalidConventionFile = errors.New("convention file is unreadable or has no usable entries")
	ErrBiddingFailed         = errors.New("engine could not produce or accept a call")
	ErrEngineFault           = errors.New("engine fault")
	ErrBufferTooSmall        = errors.New("output buffer too small")
	ErrAuctionComplete       = errors.New("auction is complete")
	ErrCallIndex             = errors.New("call index out of range")
)

// CodeOf maps an error returned by this package to its Code. A nil error is
// CodeOK. Errors that carry none of the package sentinels map to
// CodeEngineFault, the catch-all the C surface uses for unclassified
// failures.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInstanceClosed):
		return CodeNullHandle
	case errors.Is(err, ErrInvalidHand):
		return CodeInvalidHand
	case errors.Is(err, ErrInvalidDealer):
		return CodeInvalidDealer
	case errors.Is(err, ErrInvalidVulnerability):
		return CodeInvalidVulnerability
	case errors.Is(err, ErrInvalidConventionFile):
		return CodeInvalidConventionFile
	case errors.Is(err, ErrCallIndex), errors.Is(err, ErrBiddingFailed):
		return CodeBiddingFailed
	case errors.Is(err, ErrBufferTooSmall):
		return CodeOutOfMemory
	case errors.Is(err, ErrAuctionComplete):
		return CodeAuctionComplete
	case errors.Is(err, ErrEngineFault):
		return CodeEngineFault
	}
	return CodeEngineFault
}
