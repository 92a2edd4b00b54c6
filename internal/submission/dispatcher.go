package submission

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/recruitbot/core/logger"
)

// Sink delivers an application to one channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, app Application) error
}

// Result reports the outcome of one dispatch. The application counts as
// accepted even when every sink failed.
type Result struct {
	Accepted bool
	Failures map[string]error
}

// OK reports whether every sink delivered.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// Stats are cumulative dispatch counters.
type Stats struct {
	Dispatched int64
	Failures   map[string]int64
}

// Dispatcher fans an application out to its sinks in order.
type Dispatcher struct {
	sinks []Sink

	dispatched atomic.Int64
	mu         sync.Mutex
	failures   map[string]int64
}

// NewDispatcher returns a dispatcher over sinks; nil sinks are skipped.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{failures: make(map[string]int64)}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Sinks returns the configured sink names in delivery order.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dispatch runs every sink once. A failing or panicking sink is logged and
// recorded; later sinks still run.
func (d *Dispatcher) Dispatch(ctx context.Context, app Application) Result {
	res := Result{Accepted: true}
	d.dispatched.Add(1)

	start := time.Now()
	for _, sink := range d.sinks {
		name := sink.Name()
		sinkStart := time.Now()
		err := deliver(ctx, sink, app)
		if err != nil {
			if res.Failures == nil {
				res.Failures = make(map[string]error)
			}
			res.Failures[name] = err
			d.recordFailure(name)
			logger.Error(ctx, logger.CompSubmission, "submission.sink.fail",
				slog.String("status", "fail"),
				slog.String("application_id", app.ID.String()),
				slog.String("sink", name),
				slog.Duration("duration", logger.Took(sinkStart)),
				logger.ErrAttr(err),
			)
			continue
		}
		logger.Debug(ctx, logger.CompSubmission, "submission.sink.ok",
			slog.String("status", "ok"),
			slog.String("application_id", app.ID.String()),
			slog.String("sink", name),
			slog.Duration("duration", logger.Took(sinkStart)),
		)
	}

	status := "ok"
	if !res.OK() {
		status = "fail"
	}
	logger.Info(ctx, logger.CompSubmission, "submission.dispatch",
		slog.String("status", status),
		slog.String("application_id", app.ID.String()),
		slog.String("lang", app.Language.Code()),
		slog.String("vacancy", app.Answers.VacancyKey),
		slog.Int("sinks", len(d.sinks)),
		slog.Int("failures", len(res.Failures)),
		slog.Duration("duration", logger.Took(start)),
	)
	return res
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	failures := make(map[string]int64, len(d.failures))
	for k, v := range d.failures {
		failures[k] = v
	}
	return Stats{Dispatched: d.dispatched.Load(), Failures: failures}
}

// FailureNames returns sink names with at least one failure, sorted.
func (s Stats) FailureNames() []string {
	names := make([]string, 0, len(s.Failures))
	for k := range s.Failures {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) recordFailure(name string) {
	d.mu.Lock()
	d.failures[name]++
	d.mu.Unlock()
}

func deliver(ctx context.Context, sink Sink, app Application) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submission: sink %s panicked: %v", sink.Name(), r)
		}
	}()
	return sink.Deliver(ctx, app)
}
