// Package main hosts the reelsmith CLI entrypoint and command graph.
//
// The Cobra-based command tree covers running the daemon in the foreground,
// configuration scaffolding and inspection, and an offline segmentation mode
// that renders transcript blocks without touching any model provider. Heavy
// lifting lives in the internal packages; commands stay declarative.
package main
