// Package backend owns the lifecycle of connections to downstream MCP
// servers: dialing, exponential-backoff reconnection, and a FIFO queue that
// lets in-flight calls survive a brief reconnection window instead of
// failing immediately. One ClientManager instance serves the whole process;
// all per-backend mutable state lives behind its mutex, mirroring the
// teacher's own manager/registry pooling style.
package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/mcpgateway/gateway/internal/gwlog"
	"github.com/viant/mcp"
	mcpclient "github.com/viant/mcp/client"
)

// State names a backend's position in its connection lifecycle.
type State string

const (
	StateDisconnected  State = "disconnected"
	StateConnected     State = "connected"
	StateReconnecting  State = "reconnecting"
	StateDisconnecting State = "disconnecting"
)

const (
	initialConnectAttempts = 3
	initialConnectBase     = 500 * time.Millisecond

	reconnectAttempts = 5
	reconnectBase     = 1 * time.Second
	reconnectCap      = 30 * time.Second

	defaultQueueTimeout = 36000 * time.Millisecond
)

// Stats is a point-in-time snapshot of one backend's connection health,
// returned by GetStats for operator-facing introspection.
type Stats struct {
	ServerName        string
	State             State
	ConnectedAt       time.Time
	ReconnectAttempts int
	QueueDepth        int
	LastError         string
}

// backendState holds everything the manager tracks for a single configured
// backend. Every mutable field is guarded by mu; name and cfg are set at
// construction, never change, and are read without it.
type backendState struct {
	mu sync.Mutex

	name   string
	cfg    gwconfig.BackendServerConfig
	client mcpclient.Interface
	state  State

	reconnectAttempts int
	lastErr           error
	connectedAt       time.Time

	reconnecting bool // compare-and-set guard: exactly one reconnect task at a time
	queue        []*queuedCall
}

// queuedCall is one caller's request, parked while its backend reconnects.
// id exists purely to let an operator correlate an "enqueued" log line with
// the "timed out"/"delivered" line that eventually resolves it, across
// whatever else is queued concurrently on the same backend.
type queuedCall struct {
	id       string
	result   chan callResult
	enqueued time.Time
	timer    *time.Timer
}

type callResult struct {
	val interface{}
	err error
}

// ClientManager coordinates connection state for every configured backend.
type ClientManager struct {
	log          gwlog.Logger
	queueTimeout time.Duration
	silent       bool

	mu       sync.RWMutex
	backends map[string]*backendState
}

// New constructs a ClientManager over the given backend configuration. No
// connections are made until Connect/ConnectAll is called.
func New(backends map[string]gwconfig.BackendServerConfig, logger gwlog.Logger) *ClientManager {
	if logger == nil {
		logger = gwlog.Discard()
	}
	m := &ClientManager{
		log:          logger,
		queueTimeout: defaultQueueTimeout,
		backends:     make(map[string]*backendState, len(backends)),
	}
	for name, cfg := range backends {
		m.backends[name] = &backendState{name: name, cfg: cfg, state: StateDisconnected}
	}
	return m
}

// WithQueueTimeout overrides the default 36s queue timeout.
func (m *ClientManager) WithQueueTimeout(d time.Duration) *ClientManager {
	if d > 0 {
		m.queueTimeout = d
	}
	return m
}

// WithSilent puts the manager in "silent" mode: spawned backends' stderr is
// discarded instead of inherited from this process. Default is off
// (inherited), matching spec.md §6.2.
func (m *ClientManager) WithSilent(silent bool) *ClientManager {
	m.silent = silent
	return m
}

func (m *ClientManager) get(name string) (*backendState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bs, ok := m.backends[name]
	return bs, ok
}

// Connect dials one backend, attempting initialConnectAttempts times,
// waiting 500ms*2^(n-1) before each attempt n (500ms, 1s, 2s).
func (m *ClientManager) Connect(ctx context.Context, name string) error {
	bs, ok := m.get(name)
	if !ok {
		return fmt.Errorf("backend: unknown server %q", name)
	}
	return m.connectWithBackoff(ctx, bs, initialConnectAttempts, initialConnectBase, 0)
}

// ConnectAll dials every named backend, collecting (not aborting on) the
// first error per backend; callers decide whether a partial failure is
// fatal for their use case.
func (m *ClientManager) ConnectAll(ctx context.Context, names []string) map[string]error {
	errs := make(map[string]error, len(names))
	for _, name := range names {
		if err := m.Connect(ctx, name); err != nil {
			errs[name] = err
			m.log.Warnf("backend: %s: initial connect failed: %v", name, err)
		}
	}
	return errs
}

// connectWithBackoff performs the dial loop shared by Connect (bounded retry
// count) and the reconnection task (different count/base/cap but the same
// shape). Per spec, the backoff delay for attempt k is waited *before* that
// attempt runs — including attempt 1 — so the total elapsed backoff across
// attempts {1..5} with base=1s/cap=30s sums to 1+2+4+8+16 = 31s, the figure
// the default queue timeout (36s) is sized against.
func (m *ClientManager) connectWithBackoff(ctx context.Context, bs *backendState, attempts int, base, capDelay time.Duration) error {
	if bs.cfg.Type != gwconfig.TransportStdio {
		err := &gwconfig.ErrUnsupportedTransport{Backend: bs.name, Transport: bs.cfg.Type}
		bs.mu.Lock()
		bs.lastErr = err
		bs.mu.Unlock()
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		delay := base * time.Duration(1<<uint(attempt-1))
		if capDelay > 0 && delay > capDelay {
			delay = capDelay
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		bs.mu.Lock()
		bs.reconnectAttempts = attempt
		bs.mu.Unlock()
		cli, err := dialFn(bs.cfg, bs.name, m.silent)
		if err == nil {
			bs.mu.Lock()
			bs.client = cli
			bs.state = StateConnected
			bs.connectedAt = time.Now()
			bs.reconnectAttempts = 0
			bs.lastErr = nil
			bs.mu.Unlock()
			return nil
		}
		lastErr = err
	}
	bs.mu.Lock()
	bs.state = StateDisconnected
	bs.lastErr = lastErr
	bs.mu.Unlock()
	return fmt.Errorf("backend: %s: connect failed after %d attempts: %w", bs.name, attempts, lastErr)
}

// dialFn is overridden in tests to avoid spawning real child processes.
var dialFn = dial

// dial constructs a fresh MCP client for a stdio backend. No handler is
// registered: the gateway never initiates elicitation/sampling toward
// backends, so a nil protoclient.Handler is correct here.
//
// Per spec.md §6.2, the child gets the configured env merged over this
// process's own environment (so it inherits things like LOG_LEVEL unless
// the backend config itself overrides them), and its stderr is inherited
// unless the manager is running in silent mode.
func dial(cfg gwconfig.BackendServerConfig, name string, silent bool) (mcpclient.Interface, error) {
	var stderr io.Writer = os.Stderr
	if silent {
		stderr = io.Discard
	}
	opts := &mcp.ClientOptions{
		Name: name,
		Transport: mcp.ClientTransport{
			Type: string(gwconfig.TransportStdio),
			ClientTransportStdio: mcp.ClientTransportStdio{
				Command:   cfg.Command,
				Arguments: cfg.Args,
				Env:       mergedEnv(cfg.Env),
				Stderr:    stderr,
			},
		},
	}
	return mcp.NewClient(nil, opts)
}

// mergedEnv overlays cfg's configured environment on top of this process's
// own environment, in os/exec's "KEY=VALUE" slice form. Starting from
// os.Environ() is what makes LOG_LEVEL (and anything else already set on
// the gateway's own process) propagate to the child unless the backend
// config itself sets a different value.
func mergedEnv(cfgEnv map[string]string) []string {
	env := os.Environ()
	for k, v := range cfgEnv {
		env = append(env, k+"="+v)
	}
	return env
}

// IsConnected reports whether name currently has a live client.
func (m *ClientManager) IsConnected(name string) bool {
	bs, ok := m.get(name)
	if !ok {
		return false
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.state == StateConnected
}

// GetConnectedServerNames returns the names of every backend currently in
// the connected state, in map iteration order (callers needing a stable
// order should sort).
func (m *ClientManager) GetConnectedServerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for name, bs := range m.backends {
		bs.mu.Lock()
		connected := bs.state == StateConnected
		bs.mu.Unlock()
		if connected {
			out = append(out, name)
		}
	}
	return out
}

// GetStats snapshots every configured backend's connection health.
func (m *ClientManager) GetStats() map[string]Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Stats, len(m.backends))
	for name, bs := range m.backends {
		bs.mu.Lock()
		s := Stats{
			ServerName:        name,
			State:             bs.state,
			ConnectedAt:       bs.connectedAt,
			ReconnectAttempts: bs.reconnectAttempts,
			QueueDepth:        len(bs.queue),
		}
		if bs.lastErr != nil {
			s.LastError = bs.lastErr.Error()
		}
		bs.mu.Unlock()
		out[name] = s
	}
	return out
}

// Disconnect marks a backend disconnected and drops its client reference.
// Any queued calls are rejected immediately.
func (m *ClientManager) Disconnect(name string) {
	bs, ok := m.get(name)
	if !ok {
		return
	}
	bs.mu.Lock()
	bs.state = StateDisconnecting
	bs.client = nil
	queue := bs.queue
	bs.queue = nil
	bs.state = StateDisconnected
	bs.mu.Unlock()
	for _, q := range queue {
		deliver(q, callResult{err: fmt.Errorf("backend: %s: disconnected", name)})
	}
}

// ReportFailure tells the manager that a call against name's client just
// failed. Per spec.md §4.5.2, reconnection starts only on "unexpected
// close/error of a CONNECTED client" — an ordinary protocol-level failure
// (bad params, a tool's own business error) leaves a perfectly healthy
// connection in place, so this is a no-op unless err looks like a dropped
// transport (see IsReconnectableError). When it does, this drops the stale
// client and starts the single shared reconnection task; callers already
// queued through EnsureConnected are unaffected if a reconnection is
// already under way.
func (m *ClientManager) ReportFailure(name string, err error) {
	if !IsReconnectableError(err) {
		return
	}
	bs, ok := m.get(name)
	if !ok {
		return
	}
	bs.mu.Lock()
	if bs.state != StateConnected {
		bs.mu.Unlock()
		return
	}
	bs.client = nil
	bs.state = StateReconnecting
	needsStart := !bs.reconnecting
	bs.reconnecting = true
	bs.mu.Unlock()
	if needsStart {
		go m.runReconnect(bs)
	}
}

// DisconnectAll disconnects every configured backend. Call on shutdown.
func (m *ClientManager) DisconnectAll() {
	m.mu.RLock()
	names := make([]string, 0, len(m.backends))
	for name := range m.backends {
		names = append(names, name)
	}
	m.mu.RUnlock()
	for _, name := range names {
		m.Disconnect(name)
	}
}
