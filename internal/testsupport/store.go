package testsupport

import (
	"context"
	"testing"

	"recut/internal/config"
	"recut/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedTranscript inserts a transcript with the provided words for tests.
func SeedTranscript(t testing.TB, st *store.Store, deliverableID string, words []store.Word, duration float64) *store.Transcript {
	t.Helper()

	tr := &store.Transcript{
		DeliverableID:   deliverableID,
		AssetURL:        "https://assets.example.com/raw.mp4",
		Words:           words,
		DurationSeconds: duration,
	}
	if err := st.InsertTranscript(context.Background(), tr); err != nil {
		t.Fatalf("InsertTranscript: %v", err)
	}
	return tr
}

// ThreeWordTranscript returns the canonical the/cat/sat word list used by
// executor tests.
func ThreeWordTranscript() []store.Word {
	return []store.Word{
		{Text: "the", Start: 0, End: 0.3},
		{Text: "cat", Start: 0.3, End: 0.6},
		{Text: "sat", Start: 0.6, End: 1.0},
	}
}
