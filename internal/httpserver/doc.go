// Package httpserver serves auction generation and the auction archive
// over a small JSON API.
//
// POST /api/auction/generate bids one deal with the configured engine and
// archives the result. GET /api/auctions and GET /api/auctions/{id} read
// the archive back. GET /api/health reports liveness and build versions.
package httpserver
