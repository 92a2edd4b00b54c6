// Package sender runs outbound Telegram calls on a small worker pool. Calls
// for the same chat always land on the same worker, so replies reach a user
// in the order they were queued.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/recruitbot/core/logger"
	"github.com/m3rciful/recruitbot/core/telegram/netutil"
)

var (
	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned when the chat's worker queue cannot take the job.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options tune the dispatcher. Zero values select defaults.
type Options struct {
	// QueueSize is the per-worker backlog.
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 15 * time.Second
	}
	return o
}

// Job is one outbound call. Run must be safe to repeat when retries are on.
type Job struct {
	Action   string
	Endpoint string
	ChatID   int64
	Run      func() error
}

type queued struct {
	ctx context.Context
	job Job
}

// Dispatcher executes jobs asynchronously with retries.
type Dispatcher struct {
	opts   Options
	queues []chan queued

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	sent   atomic.Uint64
	failed atomic.Uint64
}

// NewDispatcher starts the workers.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts:   opts,
		queues: make([]chan queued, opts.Workers),
	}
	d.wg.Add(opts.Workers)
	for i := range d.queues {
		d.queues[i] = make(chan queued, opts.QueueSize)
		go d.work(d.queues[i])
	}
	return d
}

// Enqueue schedules job on the worker that owns job.ChatID.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	if job.Run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.queues[d.shard(job.ChatID)] <- queued{ctx: ctx, job: job}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) shard(chatID int64) int {
	return int(uint64(chatID) % uint64(len(d.queues)))
}

// ErrorCount returns the number of jobs that failed for good.
func (d *Dispatcher) ErrorCount() uint64 { return d.failed.Load() }

// SentCount returns the number of jobs that eventually succeeded.
func (d *Dispatcher) SentCount() uint64 { return d.sent.Load() }

// Pending returns the number of queued jobs not yet picked up.
func (d *Dispatcher) Pending() int {
	n := 0
	for _, q := range d.queues {
		n += len(q)
	}
	return n
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, q := range d.queues {
			close(q)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) work(q <-chan queued) {
	defer d.wg.Done()
	for item := range q {
		d.run(item.ctx, item.job)
	}
}

func (d *Dispatcher) run(ctx context.Context, job Job) {
	start := time.Now()
	deadline := start.Add(d.opts.MaxDuration)
	attrs := jobAttrs(job)

	var (
		err     error
		attempt int
	)
	for {
		attempt++
		if err = job.Run(); err == nil {
			d.sent.Add(1)
			logger.Debug(ctx, logger.CompSender, "send.ok", append(attrs,
				slog.String("status", "ok"),
				slog.Int("attempt", attempt),
				slog.Duration("duration", logger.Took(start)),
			)...)
			return
		}
		wait, again := d.backoff(err, attempt)
		if !again || time.Now().Add(wait).After(deadline) {
			break
		}
		logger.Debug(ctx, logger.CompSender, "send.retry", append(attrs,
			slog.String("status", "retry"),
			slog.Int("attempt", attempt),
			slog.Duration("delay", wait),
			slog.String("error_kind", errorKind(err)),
		)...)
		time.Sleep(wait)
	}

	d.failed.Add(1)
	logger.Error(ctx, logger.CompSender, "send.fail", append(attrs,
		slog.String("status", "fail"),
		slog.Int("attempts", attempt),
		slog.Duration("duration", logger.Took(start)),
		slog.String("error_kind", errorKind(err)),
		slog.String("err", redact(err)),
	)...)
}

// backoff decides whether attempt may be followed by another and how long
// to wait first. Flood waits use the delay Telegram asked for.
func (d *Dispatcher) backoff(err error, attempt int) (time.Duration, bool) {
	if attempt > d.opts.MaxRetries {
		return 0, false
	}
	if wait, ok := netutil.RetryAfter(err); ok {
		return wait, true
	}
	if !netutil.Retryable(err) {
		return 0, false
	}
	return d.opts.RetryBackoff * time.Duration(attempt), true
}

func jobAttrs(job Job) []slog.Attr {
	attrs := make([]slog.Attr, 0, 8)
	attrs = append(attrs, slog.String("action", job.Action))
	if job.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", job.Endpoint))
	}
	return attrs
}
