package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOConfig configures the Socket.IO publisher.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO emits every event on a single Socket.IO connection.
type SocketIO struct {
	io    *socket.Socket
	event string
}

// DialSocketIO connects to the listener and waits for the handshake to
// complete or for cfg.Timeout to elapse.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", cfg.URL, "namespace", cfg.Namespace)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.Event == "" {
		cfg.Event = "hpmbench"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		select {
		case connected <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			err = fmt.Errorf("connect error: %v", errs[0])
		}
		select {
		case connected <- err:
		default:
		}
	})
	io.Connect()

	timer := time.NewTimer(cfg.Timeout)
	defer timer.Stop()
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, err
		}
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for connection to %s", cfg.Timeout, cfg.URL)
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	}

	logger.Info("📡 Progress notifier connected", "sid", io.Id())
	return &SocketIO{io: io, event: cfg.Event}, nil
}

// Notify emits the event as a JSON object.
func (s *SocketIO) Notify(ctx context.Context, ev Event) {
	payload, err := toPayload(Stamp(ev))
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Dropping progress event.", "type", ev.Type, "error", err)
		return
	}
	s.io.Emit(s.event, payload)
}

// Close disconnects from the listener.
func (s *SocketIO) Close() error {
	s.io.Disconnect()
	return nil
}

func toPayload(ev Event) (map[string]any, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
