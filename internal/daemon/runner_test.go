package daemon

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunnerStartOnce(t *testing.T) {
	r := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- r.Start(ctx)
	}()
	<-started
	// wait for the runner to mark itself running
	deadline := time.After(2 * time.Second)
	for !r.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("runner never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second start: got %v, want ErrAlreadyRunning", err)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("start: got %v, want context.Canceled", err)
	}
	if r.IsRunning() {
		t.Fatal("runner still marked running after exit")
	}
}

func TestRunnerShutdownRunsHook(t *testing.T) {
	cleaned := make(chan struct{})
	r := New(nil, &Dependencies{
		RunFunc: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		ShutdownFunc: func() error {
			close(cleaned)
			return nil
		},
	})
	if err := r.Shutdown(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("shutdown before start: got %v, want ErrNotRunning", err)
	}
	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()
	deadline := time.After(2 * time.Second)
	for !r.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("runner never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if err := r.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case <-cleaned:
	default:
		t.Fatal("shutdown hook never ran")
	}
	if err := <-done; err != nil {
		t.Fatalf("start after shutdown: %v", err)
	}
}

func TestRunnerShutdownTimeout(t *testing.T) {
	block := make(chan struct{})
	r := New(
		&Config{ShutdownTimeout: 20 * time.Millisecond},
		&Dependencies{
			ShutdownFunc: func() error {
				<-block
				return nil
			},
		},
	)
	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()
	deadline := time.After(2 * time.Second)
	for !r.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("runner never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if err := r.Shutdown(); !errors.Is(err, ErrShutdownTimeout) {
		t.Fatalf("shutdown: got %v, want ErrShutdownTimeout", err)
	}
	close(block)
	<-done
}
