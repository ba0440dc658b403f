// Package pipeline runs generated concepts through the scripting stages
// concurrently. Each concept is processed by exactly one worker, which owns
// the concept for its whole lifecycle: match blocks, validate the matches,
// extract a verbatim script, index it deterministically, fall back to the
// model indexer for leftovers, then evaluate and optionally recommend.
//
// Failures are contained per concept. A worker that errors or panics marks
// its own concept with status error and an error message; sibling concepts
// are unaffected. Results always come back in submission order regardless of
// worker scheduling.
package pipeline
