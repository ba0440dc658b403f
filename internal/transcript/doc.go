// Package transcript defines the token-level transcript model and the ID
// virtualization layer that converts client-supplied transcripts into a dense
// integer-indexed internal representation.
//
// Client transcripts arrive with identifiers of arbitrary shape (strings,
// numbers, or nothing at all). Dehydrate rewrites every token with a
// sequential internal id and records the association in an IDMap so the
// output formatter can translate pipeline results back to the identifiers the
// client knows. Tokens introduced purely for internal normalization (synthetic
// spacing) never enter the map and are dropped on the way back out.
package transcript
