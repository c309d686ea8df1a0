// Package proxysvc dispatches a single logical operation (call a tool, read
// a resource, get a prompt) against one backend: it obtains a live client
// through the client manager, applies a per-call timeout, and retries
// transient failures with linear backoff before giving up. It never decides
// which backend to use or what to do on total failure — that's the
// frontend router's job — it just makes one backend call as reliable as a
// bounded retry budget allows.
package proxysvc

import (
	"context"
	"fmt"
	"time"

	"github.com/mcpgateway/gateway/internal/backend"
	"github.com/mcpgateway/gateway/internal/gwlog"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 2
	defaultRetryDelayMs = 500
)

// Service dispatches operations against backends managed by a
// backend.ClientManager, retrying transient failures with linear backoff.
type Service struct {
	manager      *backend.ClientManager
	log          gwlog.Logger
	timeout      time.Duration
	maxRetries   int
	retryDelayMs int
}

// New constructs a Service with the spec's defaults: a 30s per-call
// timeout, 2 retries, and a 500ms linear retry step.
func New(manager *backend.ClientManager, logger gwlog.Logger) *Service {
	if logger == nil {
		logger = gwlog.Discard()
	}
	return &Service{
		manager:      manager,
		log:          logger,
		timeout:      defaultTimeout,
		maxRetries:   defaultMaxRetries,
		retryDelayMs: defaultRetryDelayMs,
	}
}

// WithTimeout overrides the default per-call timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithMaxRetries overrides the default retry budget (0 disables retries).
func (s *Service) WithMaxRetries(n int) *Service {
	if n >= 0 {
		s.maxRetries = n
	}
	return s
}

// WithRetryDelayMs overrides the linear backoff step: attempt k waits
// retryDelayMs*k milliseconds before retrying.
func (s *Service) WithRetryDelayMs(ms int) *Service {
	if ms >= 0 {
		s.retryDelayMs = ms
	}
	return s
}

// CallTool invokes a tool on serverName, retrying on transient failure.
func (s *Service) CallTool(ctx context.Context, serverName, toolName string, args map[string]interface{}) (*mcpschema.CallToolResult, error) {
	op := "tools/call:" + toolName
	var out *mcpschema.CallToolResult
	err := s.withRetry(ctx, serverName, op, func(ctx context.Context, cli mcpclient.Interface) error {
		res, err := cli.CallTool(ctx, &mcpschema.CallToolRequestParams{Name: toolName, Arguments: args})
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, s.wrapErr(serverName, op, err)
}

// ReadResource reads one resource URI on serverName, retrying on transient
// failure.
func (s *Service) ReadResource(ctx context.Context, serverName, uri string) (*mcpschema.ReadResourceResult, error) {
	op := "resources/read:" + uri
	var out *mcpschema.ReadResourceResult
	err := s.withRetry(ctx, serverName, op, func(ctx context.Context, cli mcpclient.Interface) error {
		res, err := cli.ReadResource(ctx, &mcpschema.ReadResourceRequestParams{Uri: uri})
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, s.wrapErr(serverName, op, err)
}

// GetPrompt fetches one prompt on serverName, retrying on transient
// failure.
func (s *Service) GetPrompt(ctx context.Context, serverName, name string, args map[string]string) (*mcpschema.GetPromptResult, error) {
	op := "prompts/get:" + name
	var out *mcpschema.GetPromptResult
	err := s.withRetry(ctx, serverName, op, func(ctx context.Context, cli mcpclient.Interface) error {
		res, err := cli.GetPrompt(ctx, &mcpschema.GetPromptRequestParams{Name: name, Arguments: args})
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, s.wrapErr(serverName, op, err)
}

// BatchCall describes one tool invocation within a CallToolsBatch fan-out.
type BatchCall struct {
	ServerName string
	ToolName   string
	Args       map[string]interface{}
}

// BatchResult is one item's outcome from CallToolsBatch. Exactly one of
// Result/Err is set.
type BatchResult struct {
	ServerName string
	ToolName   string
	Result     *mcpschema.CallToolResult
	Err        error
}

// CallToolsBatch dispatches every call concurrently and never itself
// returns an error: a failing item reports its error in its own
// BatchResult so that one bad backend can't sink an otherwise-successful
// batch.
func (s *Service) CallToolsBatch(ctx context.Context, calls []BatchCall) []BatchResult {
	out := make([]BatchResult, len(calls))
	done := make(chan int, len(calls))
	for i, call := range calls {
		i, call := i, call
		go func() {
			res, err := s.CallTool(ctx, call.ServerName, call.ToolName, call.Args)
			out[i] = BatchResult{ServerName: call.ServerName, ToolName: call.ToolName, Result: res, Err: err}
			done <- i
		}()
	}
	for range calls {
		<-done
	}
	return out
}

// withRetry obtains a connected client for serverName and invokes fn,
// retrying up to maxRetries times with retryDelayMs*attempt linear backoff.
// A failure EnsureConnected itself reports (the backend never came back)
// ends the attempt loop immediately: there is nothing a retry would change.
func (s *Service) withRetry(ctx context.Context, serverName, op string, fn func(ctx context.Context, cli mcpclient.Interface) error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		cli, err := s.manager.EnsureConnected(callCtx, serverName)
		if err != nil {
			cancel()
			return err
		}
		lastErr = fn(callCtx, cli)
		cancel()
		if lastErr == nil {
			return nil
		}
		s.manager.ReportFailure(serverName, lastErr)
		if attempt == s.maxRetries {
			break
		}
		s.log.Warnf("proxysvc: %s.%s attempt %d failed: %v, retrying", serverName, op, attempt+1, lastErr)
		delay := time.Duration(s.retryDelayMs*(attempt+1)) * time.Millisecond
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (s *Service) wrapErr(serverName, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s failed: %w", serverName, op, err)
}
