package sender

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 8})
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		if err := d.Enqueue(context.Background(), Job{Action: "send.text", ChatID: int64(i), Run: func() error {
			ran.Add(1)
			return nil
		}}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	d.Close()
	if got := ran.Load(); got != 5 {
		t.Fatalf("expected 5 runs, got %d", got)
	}
	if d.SentCount() != 5 || d.ErrorCount() != 0 {
		t.Fatalf("unexpected counters sent=%d errs=%d", d.SentCount(), d.ErrorCount())
	}
	if err := d.Enqueue(context.Background(), Job{Run: func() error { return nil }}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	_ = d.Enqueue(context.Background(), Job{Action: "send.text", Run: func() error {
		if calls.Add(1) == 1 {
			return &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return nil
	}})
	d.Close()
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("expected no failures, got %d", d.ErrorCount())
	}
}

func TestDispatcherCountsPermanentFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	_ = d.Enqueue(context.Background(), Job{Action: "send.text", Run: func() error {
		calls.Add(1)
		return errors.New("telegram: bot was blocked by the user (403)")
	}})
	d.Close()
	if calls.Load() != 1 {
		t.Fatalf("permanent errors must not be retried, got %d attempts", calls.Load())
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("expected 1 failure, got %d", d.ErrorCount())
	}
}

func TestClassifyAndSanitize(t *testing.T) {
	if got := errorKind(errors.New("telegram: Forbidden (403)")); got != "http_4xx" {
		t.Fatalf("errorKind = %q", got)
	}
	if got := errorKind(context.DeadlineExceeded); got != "timeout" {
		t.Fatalf("errorKind = %q", got)
	}
	msg := redact(errors.New("Post https://api.telegram.org/bot123:ABC-def/sendMessage: EOF"))
	if want := "Post https://api.telegram.org/bot<redacted>/sendMessage: EOF"; msg != want {
		t.Fatalf("redact = %q, want %q", msg, want)
	}
}

func TestDispatcherKeepsPerChatOrder(t *testing.T) {
	d := NewDispatcher(Options{Workers: 4, QueueSize: 32})
	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 20; i++ {
		i := i
		if err := d.Enqueue(context.Background(), Job{Action: "send.text", ChatID: -1001, Run: func() error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		}}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	d.Close()
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	block := make(chan struct{})
	started := make(chan struct{})
	_ = d.Enqueue(context.Background(), Job{Run: func() error { close(started); <-block; return nil }})
	<-started
	_ = d.Enqueue(context.Background(), Job{Run: func() error { return nil }})
	if err := d.Enqueue(context.Background(), Job{Run: func() error { return nil }}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	close(block)
	d.Close()
	if d.SentCount() != 2 {
		t.Fatalf("sent = %d", d.SentCount())
	}
}
