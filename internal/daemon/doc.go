// Package daemon ties the HTTP server to a process lifecycle: directory
// preparation, flock-based locking to prevent multiple concurrent instances,
// and orderly shutdown.
package daemon
