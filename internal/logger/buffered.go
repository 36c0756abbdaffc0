package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Closer flushes buffered log output on shutdown.
type Closer interface {
	Close()
}

// nopCloser is the Closer for synchronous mode.
type nopCloser struct{}

func (nopCloser) Close() {}

// BufferedHandler decouples log emission from the request path: records
// are queued and a single drain goroutine hands them to the wrapped
// handler. A full queue drops the record instead of blocking the caller.
type BufferedHandler struct {
	next    slog.Handler
	jobs    chan func()
	done    chan struct{}
	dropped *atomic.Int64
}

// NewBufferedHandler wraps next with a queue of the given capacity and
// starts the drain goroutine.
func NewBufferedHandler(next slog.Handler, capacity int) *BufferedHandler {
	h := &BufferedHandler{
		next:    next,
		jobs:    make(chan func(), capacity),
		done:    make(chan struct{}),
		dropped: &atomic.Int64{},
	}
	go h.drain()
	return h
}

func (h *BufferedHandler) drain() {
	defer close(h.done)
	for job := range h.jobs {
		job()
	}
}

// Enabled delegates to the wrapped handler.
func (h *BufferedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle queues the record. Each job captures the handler it was queued
// through, so records logged via a WithAttrs derivative keep its attrs.
func (h *BufferedHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler requires a value receiver for the record
	next := h.next
	select {
	case h.jobs <- func() { _ = next.Handle(context.Background(), rec) }:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// WithAttrs returns a derivative sharing the queue and drain goroutine.
func (h *BufferedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferedHandler{next: h.next.WithAttrs(attrs), jobs: h.jobs, done: h.done, dropped: h.dropped}
}

// WithGroup returns a derivative sharing the queue and drain goroutine.
func (h *BufferedHandler) WithGroup(name string) slog.Handler {
	return &BufferedHandler{next: h.next.WithGroup(name), jobs: h.jobs, done: h.done, dropped: h.dropped}
}

// Dropped reports how many records were discarded on a full queue.
func (h *BufferedHandler) Dropped() int64 {
	return h.dropped.Load()
}

// Close flushes queued records and stops the drain goroutine. Only the
// root handler may be closed; derivatives share its queue.
func (h *BufferedHandler) Close() {
	close(h.jobs)
	<-h.done
}
