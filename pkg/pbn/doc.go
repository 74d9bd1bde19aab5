// Package pbn reads and writes Portable Bridge Notation game files, the
// interchange format the batch tools consume and produce. Only the parts of
// the notation the bidding workflow touches are implemented: tag pairs,
// comment and escape lines, and Auction sections. Play sections and tag
// value dialects beyond Deal, Dealer, and Vulnerable pass through as
// opaque tags.
package pbn
