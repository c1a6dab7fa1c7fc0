// Package replication defines the fire-and-forget transport that mirrors
// persistent variable writes to the other participating processes.
//
// Delivery is eventual: there is no acknowledgement back to the writer, no
// upper bound on propagation delay, and no ordering guarantee across
// distinct keys. Readers observe last-delivered-write-wins per key. Callers
// that need stronger guarantees are holding the wrong tool.
package replication

import "context"

// Record is one persistent variable write on the wire. Scope is the
// canonical scope string of the writer (see scopes.Scope), so object-scoped
// persistent writes stay qualified by their owner.
type Record struct {
	Scope string
	Key   string
	Value any
}

// Transport publishes persistent writes to the other processes. Publish
// must not block on delivery and has no way to report delivery failure;
// implementations log what they cannot send.
type Transport interface {
	Publish(ctx context.Context, rec Record)
}

// Sink receives records delivered from remote processes. The scope store
// implements Sink.
type Sink interface {
	ApplyRemote(rec Record)
}

// Nop is the transport for a non-networked process: persistent writes stay
// local, exactly like non-persistent ones.
type Nop struct{}

// Publish discards the record.
func (Nop) Publish(context.Context, Record) {}
