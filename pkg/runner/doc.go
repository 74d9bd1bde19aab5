// Package runner drives deals through bidding-engine instances to finished
// auctions.
//
// A Runner builds engines through a Factory, so the same batch code serves
// the subprocess binding in production and the scripted engine in tests.
// Deal bids one board; Games bids a whole PBN file with a worker pool, each
// worker reusing one engine instance across its share of the boards, and
// returns the completed games with their auctions and contracts filled in.
package runner
