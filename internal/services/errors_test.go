package services_test

import (
	"errors"
	"fmt"
	"testing"

	"recut/internal/services"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrTranscription, "transcript", "transcribe", "provider call", cause)

	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected marker to be preserved, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "render", "submit", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect string
	}{
		{"nil", nil, ""},
		{"validation", services.Wrap(services.ErrValidation, "recipe", "compile", "instructions required", nil), services.KindInvalidInput},
		{"not found", services.Wrap(services.ErrNotFound, "transcript", "get", "unknown id", nil), services.KindNotFound},
		{"transcription", services.Wrap(services.ErrTranscription, "transcript", "transcribe", "", nil), services.KindTranscriptionFailed},
		{"submission", services.Wrap(services.ErrRenderSubmission, "render", "submit", "", nil), services.KindRenderSubmissionFailed},
		{"execution", services.Wrap(services.ErrExecution, "timeline", "execute", "", nil), services.KindExecutionError},
		{"timeout", services.Wrap(services.ErrTimeout, "render", "submit", "", nil), services.KindRenderTimeout},
		{"unclassified", fmt.Errorf("boom"), services.KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Kind(tc.err); got != tc.expect {
				t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.expect)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if services.Retryable(services.Wrap(services.ErrValidation, "recipe", "compile", "", nil)) {
		t.Fatal("validation errors must not be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrExecution, "timeline", "execute", "", nil)) {
		t.Fatal("execution errors must not be retryable")
	}
	if !services.Retryable(services.Wrap(services.ErrRenderSubmission, "render", "submit", "", nil)) {
		t.Fatal("submission failures should be retryable")
	}
}
