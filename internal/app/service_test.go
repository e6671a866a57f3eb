package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dealsplit/internal/config"
)

type stubService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *stubService) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &stubService{name: "failing", startErr: errors.New("boom")}
	blocking := &stubService{name: "blocking", block: true}
	runner := NewRunner(failing, blocking)

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("expected all services stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	blocking := &stubService{name: "blocking", block: true}
	runner := NewRunner(blocking)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("expected nil on cancel, got %v", err)
	}
	if !blocking.stopped.Load() {
		t.Fatalf("expected service stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}

func TestBuildRunnerRejectsUnknownMode(t *testing.T) {
	if _, _, err := BuildRunner(&config.Config{}, "unknown"); err == nil {
		t.Fatalf("expected unknown mode error")
	}
	if _, _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("expected nil config error")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll {
		t.Fatalf("expected default mode all, got %s", opts.Mode)
	}
	if opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %v", opts.ShutdownTimeout)
	}
	if opts.Logger == nil {
		t.Fatalf("expected default logger")
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected nil service error")
	}
}

func TestHTTPServiceStopBeforeStart(t *testing.T) {
	svc := NewHTTPService("127.0.0.1:0", nil)
	if svc.Name() != "http" {
		t.Fatalf("unexpected name: %s", svc.Name())
	}
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop before start failed: %v", err)
	}
}
