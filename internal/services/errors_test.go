package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrValidation, "pipeline", "decode request", "missing words", cause)

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("wrapped error lost its marker: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost its cause: %v", err)
	}
	want := "validation error: pipeline: decode request: missing words: boom"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "stage", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient classification, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Wrap(ErrValidation, "server", "", "bad body", nil), http.StatusBadRequest},
		{Wrap(ErrNotFound, "roles", "", "missing role", nil), http.StatusBadRequest},
		{Wrap(ErrConfiguration, "config", "", "bad settings", nil), http.StatusInternalServerError},
		{Wrap(ErrExternalService, "llm", "", "upstream down", nil), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := RequestIDFromContext(ctx); ok {
		t.Fatal("empty context should have no request id")
	}

	ctx = WithRequestID(ctx, "abc12345")
	ctx = WithConcept(ctx, "concept_02")
	ctx = WithStage(ctx, "block-matching")

	if rid, ok := RequestIDFromContext(ctx); !ok || rid != "abc12345" {
		t.Fatalf("request id = %q ok=%v", rid, ok)
	}
	if id, ok := ConceptFromContext(ctx); !ok || id != "concept_02" {
		t.Fatalf("concept = %q ok=%v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "block-matching" {
		t.Fatalf("stage = %q ok=%v", stage, ok)
	}
}

func TestContextIgnoresEmptyValues(t *testing.T) {
	ctx := WithStage(context.Background(), "")
	if _, ok := StageFromContext(ctx); ok {
		t.Fatal("empty stage should not be stored")
	}
}
