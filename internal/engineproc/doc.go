// Package engineproc runs the bidding engine in a separate host process
// and adapts it to the bba.Engine interface.
//
// The wire protocol is line-delimited JSON. Each request is a single
// object with an "op" field plus the operation's arguments; each response
// carries "ok" and either a result ("value" or "number") or an "error"
// string. The host answers requests strictly in order. A "ping" request
// is sent at startup so a broken host fails fast instead of on the first
// real call.
package engineproc
