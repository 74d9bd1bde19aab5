// Package enginetest provides an in-memory engine implementation for
// testing and examples.
//
// The engine implements bba.Engine without a native library or a
// subprocess, so facade behavior, batch processing, and the HTTP service
// can all be exercised hermetically. Suggestions come from a fixed script;
// when the script is exhausted the engine suggests nothing, which the
// facade records as a pass, so every script drives an auction to
// completion:
//
//	eng := enginetest.New("1H", "Pass", "2H")
//	inst, _ := bba.New(eng)
//	defer inst.Close()
//	// NextCall yields 1H, Pass, 2H, then passes until the auction ends.
//
// FailNext and PanicNext arm one-shot failures for exercising the error
// contract and the fault boundary:
//
//	eng.PanicNext("Suggest")
//	_, err := inst.NextCall(ctx) // reported as a bidding failure
//
// The engine records everything the facade forwards (deal, dealer,
// vulnerability, positions, options, table calls) for assertions. It is not
// a bidding engine: scripts are played back verbatim with no legality
// checking.
package enginetest
