package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

var errWriterClosed = errors.New("logger: writer closed")

const lineQueueSize = 512

// lineWriter moves formatted lines off the logging goroutine. Lines reach
// every output in order; the buffer is flushed whenever the queue runs dry.
type lineWriter struct {
	lines   chan []byte
	flushes chan chan error
	stopped chan struct{}

	// mu guards closed against concurrent Write/Close.
	mu     sync.RWMutex
	closed bool

	out *bufio.Writer

	errMu sync.Mutex
	err   error
}

func newLineWriter(outputs []io.Writer, bufSize int) *lineWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	live := make([]io.Writer, 0, len(outputs))
	for _, o := range outputs {
		if o != nil {
			live = append(live, o)
		}
	}
	w := &lineWriter{
		lines:   make(chan []byte, lineQueueSize),
		flushes: make(chan chan error),
		stopped: make(chan struct{}),
		out:     bufio.NewWriterSize(io.MultiWriter(live...), bufSize),
	}
	go w.run()
	return w
}

func (w *lineWriter) run() {
	defer close(w.stopped)
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.record(w.out.Flush())
				return
			}
			w.write(line)
			if len(w.lines) == 0 {
				w.record(w.out.Flush())
			}
		case ack := <-w.flushes:
			w.drain()
			ack <- w.out.Flush()
		}
	}
}

// drain writes whatever is queued right now without blocking.
func (w *lineWriter) drain() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				return
			}
			w.write(line)
		default:
			return
		}
	}
}

func (w *lineWriter) write(line []byte) {
	_, err := w.out.Write(line)
	w.record(err)
}

// Write queues a copy of p. It blocks while the queue is full.
func (w *lineWriter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := w.firstErr(); err != nil {
		return err
	}
	line := append([]byte(nil), p...)

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return errWriterClosed
	}
	w.lines <- line
	return nil
}

// Flush blocks until everything queued so far has reached the outputs.
func (w *lineWriter) Flush() error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return w.firstErr()
	}
	ack := make(chan error, 1)
	w.flushes <- ack
	w.mu.RUnlock()
	if err := <-ack; err != nil {
		return err
	}
	return w.firstErr()
}

// Close drains the queue, stops the writer goroutine and returns the first
// write error seen.
func (w *lineWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.lines)
	}
	w.mu.Unlock()
	<-w.stopped
	return w.firstErr()
}

func (w *lineWriter) record(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

func (w *lineWriter) firstErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}
