package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranscribeDecodesWords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req transcribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MediaURL != "https://cdn.example.com/ep1.mp4" {
			t.Errorf("unexpected media url %q", req.MediaURL)
		}
		json.NewEncoder(w).Encode(Result{
			Words: []Word{
				{Text: "the", Start: 0, End: 0.3},
				{Text: "cat", Start: 0.3, End: 0.6},
			},
			Text:            "the cat",
			DurationSeconds: 0.6,
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.Transcribe(context.Background(), "https://cdn.example.com/ep1.mp4")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(result.Words) != 2 || result.Words[1].Text != "cat" {
		t.Fatalf("unexpected words: %#v", result.Words)
	}
	if result.DurationSeconds != 0.6 {
		t.Fatalf("unexpected duration %g", result.DurationSeconds)
	}
}

func TestTranscribeRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{Text: ""})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Transcribe(context.Background(), "https://cdn.example.com/ep1.mp4"); err == nil {
		t.Fatal("expected error for empty transcription")
	}
}

func TestTranscribeReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported codec", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Transcribe(context.Background(), "https://cdn.example.com/ep1.mp4")
	if err == nil {
		t.Fatal("expected error for http failure")
	}
	if !strings.Contains(err.Error(), "http 422") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if strings.Contains(err.Error(), "unsupported codec") {
		t.Fatalf("provider body leaked into error: %v", err)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
