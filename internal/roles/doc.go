// Package roles implements the language-model collaborators of the script
// pipeline. Each role wraps an llm.Client with a fixed system prompt and a
// typed response payload: the summarizer condenses the full transcript, the
// generator proposes concepts, the matcher selects source blocks, the
// extractor assembles a verbatim script, the fallback indexer resolves chunks
// the deterministic indexer could not, and the evaluator and recommender
// review the finished script.
//
// A Set bundles the roles a request needs, built from per-role client
// configurations. Roles never mutate shared pipeline state; they return typed
// results and leave orchestration to the pipeline package.
package roles
