package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrTranscription    = errors.New("transcription failed")
	ErrRenderSubmission = errors.New("render submission failed")
	ErrExecution        = errors.New("execution error")
	ErrTimeout          = errors.New("timeout")
	ErrTransient        = errors.New("transient failure")
)

// Stable error kinds exposed at the pipeline boundary. Callers switch on
// these instead of inspecting collaborator-specific payloads.
const (
	KindInvalidInput           = "invalid_input"
	KindNotFound               = "not_found"
	KindTranscriptionFailed    = "transcription_failed"
	KindRenderSubmissionFailed = "render_submission_failed"
	KindExecutionError         = "execution_error"
	KindRenderTimeout          = "render_timeout"
	KindInternal               = "internal"
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later kind classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps a pipeline error to its stable enumerable kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTranscription):
		return KindTranscriptionFailed
	case errors.Is(err, ErrRenderSubmission):
		return KindRenderSubmissionFailed
	case errors.Is(err, ErrExecution):
		return KindExecutionError
	case errors.Is(err, ErrTimeout):
		return KindRenderTimeout
	default:
		return KindInternal
	}
}

// Retryable reports whether resubmitting a fresh operation is safe. Caller
// errors and data inconsistencies are not retried; collaborator failures are.
func Retryable(err error) bool {
	switch Kind(err) {
	case KindTranscriptionFailed, KindRenderSubmissionFailed, KindRenderTimeout, KindInternal:
		return err != nil
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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
