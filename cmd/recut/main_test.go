package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	expected := []string{"transcribe", "recipe", "execute", "render", "command", "health", "config"}
	for _, name := range expected {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	if root.PersistentFlags().Lookup("server") == nil {
		t.Error("missing --server flag")
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestAPIClientDecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"kind": "not_found", "message": "recipe missing"},
		})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "")
	err := client.do(context.Background(), http.MethodGet, "/api/v1/recipes/missing", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apiError, got %T", err)
	}
	if apiErr.Kind != "not_found" || apiErr.Status != http.StatusNotFound {
		t.Fatalf("unexpected error: %#v", apiErr)
	}
}

func TestAPIClientSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer server.Close()

	client := newAPIClient(server.URL, "secret")
	var out map[string]bool
	if err := client.do(context.Background(), http.MethodGet, "/", nil, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !out["ok"] {
		t.Fatalf("unexpected response: %v", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Order", "Start"},
		[][]string{{"0", "0.00s"}, {"1", "0.60s"}},
		0, 1,
	)
	if !strings.Contains(out, "Order") || !strings.Contains(out, "0.60s") {
		t.Fatalf("unexpected table output:\n%s", out)
	}

	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}

	// A short row pads with empty cells instead of panicking.
	padded := renderTable([]string{"A", "B"}, [][]string{{"only"}})
	if !strings.Contains(padded, "only") {
		t.Fatalf("unexpected padded table output:\n%s", padded)
	}
}

func TestDescribeOperation(t *testing.T) {
	cases := []struct {
		op   operationView
		want string
	}{
		{operationView{Kind: "cut", Start: 1, End: 2.5}, "1.00s - 2.50s"},
		{operationView{Kind: "reorder", From: 2, To: 0}, "segment 2 -> position 0"},
		{operationView{Kind: "remove_filler", Words: []string{"um", "uh"}}, "um, uh"},
		{operationView{Kind: "adjust_pacing", Factor: 2}, "2.00x"},
	}
	for _, tc := range cases {
		if got := describeOperation(tc.op); got != tc.want {
			t.Errorf("describeOperation(%s) = %q, want %q", tc.op.Kind, got, tc.want)
		}
	}
}
