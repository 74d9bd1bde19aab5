// Package bba exposes a typed Go API over a closed bridge-bidding engine.
// The engine decides what to call; this package owns everything around that
// decision: the auction record (calls made, whose turn it is, whether the
// auction has ended), deal and seat bookkeeping, convention-card loading,
// and a stable error-code contract shared with the flat C surface built by
// cmd/libbba. Concrete engine bindings implement the Engine interface and
// plug in underneath without the rest of the package knowing which one is
// in use.
package bba
