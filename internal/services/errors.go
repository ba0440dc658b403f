package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks request payloads the pipeline refuses to process.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks malformed settings discovered after startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks references to entities that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrExternalService marks failures reported by the text-generation collaborator.
	ErrExternalService = errors.New("external service error")
	// ErrTransient marks failures with no better classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a classified error to the response status the server should
// emit. Validation problems are the client's fault; everything else is ours.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
