// Command libbba builds the flat C interface as a shared library:
//
//	go build -buildmode=c-shared -o libbba.so ./cmd/libbba
//
// The exported surface lives in internal/capi; this package only anchors
// the build.
package main

import (
	_ "github.com/bridgetools/bba-go/internal/capi"
)

func main() {}
