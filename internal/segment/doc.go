// Package segment partitions a dehydrated transcript into bounded,
// single-speaker blocks sized for downstream language-model analysis.
package segment
