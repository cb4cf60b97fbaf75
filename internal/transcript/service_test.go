package transcript_test

import (
	"context"
	"errors"
	"testing"

	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/services/speech"
	"recut/internal/testsupport"
	"recut/internal/transcript"
)

type fakeTranscriber struct {
	result *speech.Result
	err    error
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (*speech.Result, error) {
	return f.result, f.err
}

func (f *fakeTranscriber) Health(context.Context) error { return f.err }

func TestTranscribePersistsNormalizedWords(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	transcriber := &fakeTranscriber{result: &speech.Result{
		Words: []speech.Word{
			{Text: "cat", Start: 0.3, End: 0.6},
			{Text: "the", Start: 0, End: 0.3},
			{Text: "  ", Start: 0.6, End: 0.7},
			{Text: "sat", Start: 0.6, End: 1.0},
		},
		DurationSeconds: 1.0,
		Language:        "en",
	}}
	svc := transcript.NewService(db, transcriber, logging.NewNop())

	created, err := svc.Transcribe(context.Background(), transcript.TranscribeRequest{
		MediaURL:      "https://cdn.example.com/ep1.mp4",
		DeliverableID: "dlv-1",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
	if created.FullText != "the cat sat" {
		t.Fatalf("expected sorted, cleaned full text, got %q", created.FullText)
	}
	if len(created.Words) != 3 {
		t.Fatalf("expected blank word dropped, got %#v", created.Words)
	}

	loaded, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.DeliverableID != "dlv-1" || loaded.AssetURL != "https://cdn.example.com/ep1.mp4" {
		t.Fatalf("unexpected persisted transcript: %#v", loaded)
	}
}

func TestTranscribeRequiresMediaURL(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := transcript.NewService(db, &fakeTranscriber{}, logging.NewNop())

	_, err := svc.Transcribe(context.Background(), transcript.TranscribeRequest{MediaURL: "  "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscribeWrapsCollaboratorFailure(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	transcriber := &fakeTranscriber{err: errors.New("service down")}
	svc := transcript.NewService(db, transcriber, logging.NewNop())

	_, err := svc.Transcribe(context.Background(), transcript.TranscribeRequest{MediaURL: "https://x/y.mp4"})
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
	if services.Kind(err) != services.KindTranscriptionFailed {
		t.Fatalf("unexpected kind for %v", err)
	}
	// Nothing persisted on failure.
	rows, listErr := svc.ByDeliverable(context.Background(), "")
	if listErr != nil {
		t.Fatalf("ByDeliverable: %v", listErr)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no transcripts, got %d", len(rows))
	}
}

func TestGetMissingTranscript(t *testing.T) {
	db := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := transcript.NewService(db, &fakeTranscriber{}, logging.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
