// Package server exposes the script pipeline over HTTP. One POST endpoint
// accepts a raw transcript plus per-role model configurations and returns the
// formatted concept results; small GET endpoints report liveness. Every
// request carries a generated correlation id through the context so all
// pipeline logs for one request can be tied together.
package server
