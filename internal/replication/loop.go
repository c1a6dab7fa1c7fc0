package replication

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Loop is an in-process bus that connects several scope stores the way a
// network relay would connect several processes. Each attached store gets
// its own Endpoint; a record published on one endpoint is delivered
// asynchronously to every other endpoint's sink, never back to the writer.
//
// Loop exists for tests and single-host setups. It keeps the guarantees of
// the real transport: each receiver applies one writer's records in publish
// order, while interleaving between writers stays arbitrary.
type Loop struct {
	mu        sync.Mutex
	endpoints []*Endpoint
}

// NewLoop creates an empty bus.
func NewLoop() *Loop {
	return &Loop{}
}

// Attach registers a sink and returns the Endpoint its process should
// publish through. The endpoint's delivery worker runs for the rest of the
// process lifetime.
func (l *Loop) Attach(sink Sink) *Endpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	ep := &Endpoint{
		loop:   l,
		sink:   sink,
		origin: uuid.NewString(),
		inbox:  make(chan Record, 64),
	}
	go ep.deliver()
	l.endpoints = append(l.endpoints, ep)
	return ep
}

func (l *Loop) broadcast(origin string, rec Record) {
	l.mu.Lock()
	targets := make([]*Endpoint, 0, len(l.endpoints))
	for _, ep := range l.endpoints {
		if ep.origin != origin {
			targets = append(targets, ep)
		}
	}
	l.mu.Unlock()

	for _, ep := range targets {
		ep.inbox <- rec
	}
}

// Endpoint is one process's handle on the bus. It implements Transport.
type Endpoint struct {
	loop   *Loop
	sink   Sink
	origin string
	inbox  chan Record
}

// deliver drains the inbox one record at a time, so records arriving from
// a given writer reach the sink in the order they were published.
func (e *Endpoint) deliver() {
	for rec := range e.inbox {
		e.sink.ApplyRemote(rec)
	}
}

// Publish fans the record out to every other endpoint on the bus.
func (e *Endpoint) Publish(_ context.Context, rec Record) {
	e.loop.broadcast(e.origin, rec)
}

// Origin returns the endpoint's unique process identifier on the bus.
func (e *Endpoint) Origin() string { return e.origin }
