// Package textutil provides small text helpers shared across the pipeline,
// mainly for log-friendly previews of transcript and script text.
package textutil

// Truncate shortens s to at most limit runes, appending an ellipsis marker
// when text was cut. Limits of zero or less return s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
