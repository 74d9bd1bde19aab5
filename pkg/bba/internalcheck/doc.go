// Package internalcheck holds static policy tests for the facade package.
//
// The tests load pkg/bba through golang.org/x/tools/go/packages and walk the
// syntax trees to enforce invariants a code review can miss: facade code
// never panics, and pass detection always goes through IsPass. The package
// exports nothing and is not meant to be imported.
package internalcheck
