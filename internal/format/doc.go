// Package format turns processed concepts into the client-facing response
// shape. Its central job is rehydration: internal integer word ids assigned
// during dehydration are translated back to the client's original ids, and
// per-chunk timing is recovered from the full transcript. Synthetic tokens
// that never had a client id are silently dropped from the remapped output.
package format
