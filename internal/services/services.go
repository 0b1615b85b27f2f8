package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-movie-backend/internal/events"
	"github.com/tbourn/go-movie-backend/internal/kv"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

// base is what every store service carries: the backing store, the bus it
// announces changes on, the per-key lock table and a clock.
//
// Store may be nil; reads then yield defaults and writes report false.
type base struct {
	Store repo.Store
	Bus   *events.Bus
	Locks *kv.Locker
	Now   func() time.Time
}

func newBase(st repo.Store, bus *events.Bus, locks *kv.Locker) base {
	if locks == nil {
		locks = &kv.Locker{}
	}
	return base{Store: st, Bus: bus, Locks: locks, Now: time.Now}
}

func (b base) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b base) lock(key string) func() {
	if b.Locks == nil {
		return func() {}
	}
	return b.Locks.Lock(key)
}

func (b base) publish(userID string, topics ...string) {
	for _, t := range topics {
		b.Bus.Publish(events.Event{Topic: t, UserID: userID})
	}
}

func startSpan(ctx context.Context, tracer, op, userID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("user.id", userID))
	return otel.Tracer(tracer).Start(ctx, op, trace.WithAttributes(attrs...))
}
