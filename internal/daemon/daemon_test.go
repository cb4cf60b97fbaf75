package daemon_test

import (
	"net/http"
	"testing"

	"recut/internal/daemon"
	"recut/internal/logging"
	"recut/internal/testsupport"
)

func TestNewRequiresDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	handler := http.NewServeMux()
	logger := logging.NewNop()

	if _, err := daemon.New(nil, st, handler, logger); err == nil {
		t.Fatal("expected error without config")
	}
	if _, err := daemon.New(cfg, nil, handler, logger); err == nil {
		t.Fatal("expected error without store")
	}
	if _, err := daemon.New(cfg, st, nil, logger); err == nil {
		t.Fatal("expected error without handler")
	}
	if _, err := daemon.New(cfg, st, handler, nil); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := daemon.New(cfg, st, handler, logger); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, st, http.NewServeMux(), logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.Stop()
	d.Stop()
}
