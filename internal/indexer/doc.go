// Package indexer resolves script chunks to word-id ranges inside their
// source blocks using the deterministic sequence locator.
//
// Chunks the locator cannot place are left without indices; that absence is
// the signal the fallback indexer consumes, not a pipeline error.
package indexer
