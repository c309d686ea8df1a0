package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	mcpclient "github.com/viant/mcp/client"
)

// EnsureConnected returns the live client for name. When the backend is
// connected, it returns immediately. When the backend is mid-reconnection,
// the caller is parked on the backend's FIFO queue until reconnection
// settles or the queue timeout elapses. When the backend is plainly
// disconnected, EnsureConnected starts a reconnection task (or joins one
// already running — at most one runs per backend at a time) and then waits
// the same way.
//
// This is the seam the proxy service calls through before every dispatch;
// it is what makes a brief backend hiccup invisible to a single in-flight
// request instead of surfacing as an immediate failure.
func (m *ClientManager) EnsureConnected(ctx context.Context, name string) (mcpclient.Interface, error) {
	bs, ok := m.get(name)
	if !ok {
		return nil, fmt.Errorf("backend: unknown server %q", name)
	}

	bs.mu.Lock()
	switch bs.state {
	case StateConnected:
		cli := bs.client
		bs.mu.Unlock()
		return cli, nil
	case StateReconnecting:
		q := m.enqueueLocked(bs)
		bs.mu.Unlock()
		return m.awaitQueued(ctx, q)
	case StateDisconnecting:
		bs.mu.Unlock()
		return nil, fmt.Errorf("backend: %s: disconnecting", name)
	default: // StateDisconnected
		q := m.enqueueLocked(bs)
		needsStart := !bs.reconnecting
		bs.reconnecting = true
		bs.state = StateReconnecting
		bs.mu.Unlock()
		if needsStart {
			go m.runReconnect(bs)
		}
		return m.awaitQueued(ctx, q)
	}
}

// enqueueLocked appends a new queued call to bs.queue. Caller holds bs.mu.
func (m *ClientManager) enqueueLocked(bs *backendState) *queuedCall {
	q := &queuedCall{id: uuid.NewString(), result: make(chan callResult, 1), enqueued: time.Now()}
	q.timer = time.AfterFunc(m.queueTimeout, func() {
		deliver(q, callResult{err: fmt.Errorf("backend: %s: queue timeout after %s (request %s)", bs.name, m.queueTimeout, q.id)})
	})
	bs.queue = append(bs.queue, q)
	return q
}

// awaitQueued blocks until q is delivered, the caller's context is
// cancelled, or the per-request timer fires — whichever comes first. It
// never leaks the timer: every exit path stops it.
func (m *ClientManager) awaitQueued(ctx context.Context, q *queuedCall) (mcpclient.Interface, error) {
	select {
	case res := <-q.result:
		q.timer.Stop()
		if res.err != nil {
			return nil, res.err
		}
		cli, _ := res.val.(mcpclient.Interface)
		return cli, nil
	case <-ctx.Done():
		q.timer.Stop()
		return nil, ctx.Err()
	}
}

// deliver resolves a queued call exactly once; redundant deliveries (e.g. a
// timer racing a successful reconnect) are silently dropped.
func deliver(q *queuedCall, res callResult) {
	select {
	case q.result <- res:
	default:
	}
}

// runReconnect is the single reconnection task for a backend: at most one
// runs at a time, guarded by bs.reconnecting. Before each of up to
// reconnectAttempts dials it waits min(1000ms*2^(k-1), 30000ms) (1,2,4,8,16s,
// summing to ~31s across 5 attempts), then drains the FIFO queue — in order
// — handing every parked caller either the fresh client or the terminal
// error.
func (m *ClientManager) runReconnect(bs *backendState) {
	ctx := context.Background()
	err := m.connectWithBackoff(ctx, bs, reconnectAttempts, reconnectBase, reconnectCap)

	bs.mu.Lock()
	bs.reconnecting = false
	queue := bs.queue
	bs.queue = nil
	var result callResult
	if err != nil {
		bs.state = StateDisconnected
		bs.lastErr = fmt.Errorf("backend %s reconnection failed after %d attempts, manual intervention required", bs.name, reconnectAttempts)
		result = callResult{err: bs.lastErr}
	} else {
		result = callResult{val: bs.client}
	}
	bs.mu.Unlock()

	for _, q := range queue {
		deliver(q, result)
	}
}
