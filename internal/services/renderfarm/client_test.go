package renderfarm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSubmitReturnsJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Kind != "preview" {
			t.Errorf("unexpected kind %q", req.Kind)
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"jobId": "job-42"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	jobID, err := client.Submit(context.Background(), SubmitRequest{
		Timeline: json.RawMessage(`{"segments":[]}`),
		Kind:     "preview",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if jobID != "job-42" {
		t.Fatalf("unexpected job id %q", jobID)
	}
}

func TestSubmitRequiresPayload(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.Submit(context.Background(), SubmitRequest{Kind: "final"}); err == nil {
		t.Fatal("expected error without timeline or script")
	}
}

func TestSubmitReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"provider":"internal quota ledger 7f3a", "user":"ops@farm"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Submit(context.Background(), SubmitRequest{
		Timeline: json.RawMessage(`{}`),
		Kind:     "final",
	})
	if err == nil {
		t.Fatal("expected submission rejection error")
	}
	if !strings.Contains(err.Error(), "http 403") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if strings.Contains(err.Error(), "quota ledger") || strings.Contains(err.Error(), "ops@farm") {
		t.Fatalf("provider body leaked into error: %v", err)
	}
}

func TestPollReportsFailureWithoutProviderBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "worker node n-17 stacktrace: panic at frame.go", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Poll(context.Background(), "job-42")
	if err == nil {
		t.Fatal("expected poll failure error")
	}
	if !strings.Contains(err.Error(), "http 500") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if strings.Contains(err.Error(), "stacktrace") {
		t.Fatalf("provider body leaked into error: %v", err)
	}
}

func TestPollDecodesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/job-42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(JobStatus{State: JobCompleted, AssetRef: "asset://final/42"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	status, err := client.Poll(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if status.State != JobCompleted || status.AssetRef != "asset://final/42" {
		t.Fatalf("unexpected status: %#v", status)
	}
	if status.JobID != "job-42" {
		t.Fatalf("expected job id filled in, got %q", status.JobID)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
