// Package socketio implements the replication transport over a socket.io
// relay. Every participating process connects as a client; a persistent
// variable write is emitted as one event and the relay fans it out to the
// other processes, which apply it to their local scope stores.
//
// The transport keeps the core's weak guarantee: emits are fire-and-forget,
// with no acknowledgement and no cross-key ordering.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/replication"
)

// DefaultEvent is the event name variable writes travel under.
const DefaultEvent = "var:set"

// Options configures a relay connection.
type Options struct {
	// URL of the socket.io relay, e.g. "wss://relay:8443/mission".
	URL string
	// Namespace on the relay; all processes of one mission share it.
	Namespace string
	// Event overrides DefaultEvent when set.
	Event string
	// ConnectTimeout bounds the initial handshake. Defaults to 10s.
	ConnectTimeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
}

// Transport is a live relay connection implementing replication.Transport.
type Transport struct {
	io     *socket.Socket
	origin string
	event  string
}

// Dial connects to the relay and wires inbound events into sink. It blocks
// until the handshake completes or the timeout elapses.
func Dial(ctx context.Context, opts Options, sink replication.Sink) (*Transport, error) {
	logger := ctxlog.FromContext(ctx).With("transport", "socketio", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse relay URL: %w", err)
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	event := opts.Event
	if event == "" {
		event = DefaultEvent
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	t := &Transport{
		io:     io,
		origin: uuid.NewString(),
		event:  event,
	}

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to replication relay", "namespace", opts.Namespace, "sid", io.Id())
		select {
		case connected <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				select {
				case connected <- err:
				default:
				}
			}
		}
	})
	io.On(types.EventName(event), func(data ...any) {
		t.apply(logger, sink, data...)
	})

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	io.Connect()

	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for relay connection")
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("relay connection failed: %w", err)
		}
	}
	return t, nil
}

// Publish emits the record to the relay. Failures are logged and dropped;
// the relay never acknowledges.
func (t *Transport) Publish(ctx context.Context, rec replication.Record) {
	payload := map[string]any{
		"origin": t.origin,
		"scope":  rec.Scope,
		"key":    rec.Key,
		"value":  rec.Value,
	}
	if err := t.io.Emit(t.event, payload); err != nil {
		ctxlog.FromContext(ctx).Warn("Dropped persistent variable write",
			"key", rec.Key, "error", err)
	}
}

// apply decodes one inbound event and installs it into the sink. The
// writer's own echoes are skipped by origin.
func (t *Transport) apply(logger *slog.Logger, sink replication.Sink, data ...any) {
	if len(data) == 0 {
		return
	}
	payload, ok := data[0].(map[string]any)
	if !ok {
		logger.Warn("Ignoring malformed replication event", "type", fmt.Sprintf("%T", data[0]))
		return
	}
	if origin, _ := payload["origin"].(string); origin == t.origin {
		return
	}
	scope, _ := payload["scope"].(string)
	key, _ := payload["key"].(string)
	if scope == "" || key == "" {
		logger.Warn("Ignoring replication event without scope or key")
		return
	}
	sink.ApplyRemote(replication.Record{Scope: scope, Key: key, Value: payload["value"]})
}

// Origin returns this process's identifier on the relay.
func (t *Transport) Origin() string { return t.origin }

// Close disconnects from the relay.
func (t *Transport) Close() {
	t.io.Disconnect()
}
