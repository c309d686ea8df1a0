package backend

import (
	"fmt"
	"time"

	mcpclient "github.com/viant/mcp/client"
)

// ForceConnectedForTest wires a pre-built client directly into a configured
// backend's state, bypassing dial entirely. It exists so that other
// packages' tests (proxysvc, frontend) can exercise a ClientManager against
// an in-memory fake client without spawning a real subprocess; production
// code never calls it.
func ForceConnectedForTest(m *ClientManager, name string, cli mcpclient.Interface) error {
	bs, ok := m.get(name)
	if !ok {
		return fmt.Errorf("backend: unknown server %q", name)
	}
	bs.mu.Lock()
	bs.client = cli
	bs.state = StateConnected
	bs.connectedAt = time.Now()
	bs.mu.Unlock()
	return nil
}
