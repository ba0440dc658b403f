// Package services provides the error taxonomy and context plumbing shared by
// every reelsmith component.
//
// Sentinel errors classify failures for transport-level status mapping;
// context helpers carry request correlation ids, concept ids, and stage names
// so loggers can tag output without threading identifiers through every call.
package services
