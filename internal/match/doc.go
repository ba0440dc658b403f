// Package match locates exact word sequences inside transcript blocks.
//
// Matching is case- and punctuation-insensitive but never fuzzy: inputs are
// normalized up front and compared verbatim. For multi-word sequences the
// locator checks only the two-word prefix and suffix of the candidate window,
// trading exhaustive interior verification for a single linear scan.
package match
