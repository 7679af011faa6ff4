// Package notify delivers the user-facing outcome of record operations:
// "Employee created successfully.", "Oops! Something went wrong", and so on.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"staff-console-go/pkg/logger"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionUploaded = "uploaded"
)

// Event is one operation outcome. Actor names the operator who triggered
// it, when known.
type Event struct {
	Kind    Kind   `json:"kind"`
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
	Actor   string `json:"actor,omitempty"`
}

type Sink interface {
	Notify(ctx context.Context, event Event)
}

type logSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) Sink {
	return logSink{log: log}
}

func (s logSink) Notify(_ context.Context, event Event) {
	args := []any{"entity", event.Entity, "action", event.Action, "id", event.ID}
	if event.Actor != "" {
		args = append(args, "actor", event.Actor)
	}
	if event.Kind == KindError {
		s.log.Warn("notify: "+event.Message, args...)
		return
	}
	s.log.Info("notify: "+event.Message, args...)
}

type writerSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterSink prints one line per event, for terminals.
func NewWriterSink(out io.Writer) Sink {
	return &writerSink{out: out}
}

func (s *writerSink) Notify(_ context.Context, event Event) {
	prefix := "ok"
	if event.Kind == KindError {
		prefix = "error"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s: %s\n", prefix, event.Message)
}

type multiSink []Sink

// Multi fans every event out to each non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var kept multiSink
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return kept
}

func (m multiSink) Notify(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Notify(ctx, event)
	}
}

type nopSink struct{}

func Nop() Sink {
	return nopSink{}
}

func (nopSink) Notify(context.Context, Event) {}
