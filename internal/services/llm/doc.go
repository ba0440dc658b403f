// Package llm wraps the chat-completion APIs of the supported text-generation
// providers behind one JSON-only client.
//
// The pipeline treats providers as interchangeable: every role issues a
// system/user prompt pair and expects a JSON document back. The client owns
// provider endpoint shaping, credential headers, retry with exponential
// backoff, and tolerant decoding of the JSON payloads models actually return
// (code fences, leading prose, and similar quirks).
package llm
