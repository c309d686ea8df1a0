// Package frontend implements the upstream-facing MCP server: the
// mcp-protocol server.Operations/server.Handler contract the gateway
// presents over stdio to whatever client launched it. A Router never talks
// to a backend directly — every dispatch goes through a proxysvc.Service —
// and never decides what's in scope — that's the group model's job. It
// only translates between the wire protocol and those two collaborators.
package frontend

import (
	"context"
	"strings"

	"github.com/mcpgateway/gateway/internal/argmap"
	"github.com/mcpgateway/gateway/internal/catalog"
	"github.com/mcpgateway/gateway/internal/groups"
	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/mcpgateway/gateway/internal/gwlog"
	"github.com/mcpgateway/gateway/internal/proxysvc"
	"github.com/viant/jsonrpc"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// Router implements the gateway's upstream-facing MCP surface over the set
// of groups named active at startup.
type Router struct {
	model   *groups.Model
	catalog *groups.BackendCatalog
	proxy   *proxysvc.Service
	active  []string
	log     gwlog.Logger
}

// New constructs a Router serving the given active group names.
func New(model *groups.Model, bc *groups.BackendCatalog, proxy *proxysvc.Service, activeGroups []string, logger gwlog.Logger) *Router {
	if logger == nil {
		logger = gwlog.Discard()
	}
	return &Router{model: model, catalog: bc, proxy: proxy, active: activeGroups, log: logger}
}

// ---------------- mcp-protocol/server.Operations ----------------

func (r *Router) Initialize(_ context.Context, _ *mcpschema.InitializeRequestParams, _ *mcpschema.InitializeResult) {
}

func (r *Router) ListTools(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListToolsRequest]) (*mcpschema.ListToolsResult, *jsonrpc.Error) {
	resolved := r.model.GetToolsForGroups(r.active, r.catalog)
	tools := make([]mcpschema.Tool, 0, len(resolved))
	for _, rt := range resolved {
		tools = append(tools, exposedTool(rt))
	}
	return &mcpschema.ListToolsResult{Tools: tools}, nil
}

func (r *Router) CallTool(ctx context.Context, req *jsonrpc.TypedRequest[*mcpschema.CallToolRequest]) (*mcpschema.CallToolResult, *jsonrpc.Error) {
	if req == nil || req.Request == nil {
		return nil, jsonrpc.NewInvalidRequest("missing request", nil)
	}
	name := strings.TrimSpace(req.Request.Params.Name)
	if name == "" {
		return nil, jsonrpc.NewInvalidRequest("missing tool name", nil)
	}

	rt, ok := r.findTool(name)
	if !ok {
		return nil, mcpschema.NewUnknownTool(name)
	}

	backendArgs, err := argmap.Transform(req.Request.Params.Arguments, rt.Override.ArgumentMapping)
	if err != nil {
		return nil, jsonrpc.NewInvalidParamsError(err.Error(), nil)
	}

	if verr := r.validateArguments(rt, backendArgs); verr != "" {
		isErr := true
		return &mcpschema.CallToolResult{
			IsError: &isErr,
			Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: verr}},
		}, nil
	}

	res, callErr := r.proxy.CallTool(ctx, rt.Override.ServerName, rt.Override.OriginalName, backendArgs)
	if callErr != nil {
		isErr := true
		return &mcpschema.CallToolResult{
			IsError: &isErr,
			Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: callErr.Error()}},
		}, nil
	}
	if res != nil && res.IsError != nil && *res.IsError {
		return nil, jsonrpc.NewInternalError(joinTextContent(res.Content), nil)
	}
	return res, nil
}

// joinTextContent concatenates the text parts of a tool result's content,
// used to surface a backend's isError=true result as a thrown MCP error per
// the frontend router's contract (the proxy service never re-expresses
// isError as a Go error itself).
func joinTextContent(content []mcpschema.CallToolResultContentElem) string {
	parts := make([]string, 0, len(content))
	for _, c := range content {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	if len(parts) == 0 {
		return "tool call failed"
	}
	return strings.Join(parts, "\n")
}

func (r *Router) ListResources(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListResourcesRequest]) (*mcpschema.ListResourcesResult, *jsonrpc.Error) {
	refs := r.model.GetResourcesForGroups(r.active)
	out := make([]mcpschema.Resource, 0, len(refs))
	for _, ref := range refs {
		out = append(out, r.resourceMetadata(ref))
	}
	return &mcpschema.ListResourcesResult{Resources: out}, nil
}

func (r *Router) ListResourceTemplates(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListResourceTemplatesRequest]) (*mcpschema.ListResourceTemplatesResult, *jsonrpc.Error) {
	return &mcpschema.ListResourceTemplatesResult{}, nil
}

func (r *Router) ReadResource(ctx context.Context, req *jsonrpc.TypedRequest[*mcpschema.ReadResourceRequest]) (*mcpschema.ReadResourceResult, *jsonrpc.Error) {
	if req == nil || req.Request == nil {
		return nil, jsonrpc.NewInvalidRequest("missing request", nil)
	}
	uri := strings.TrimSpace(req.Request.Params.Uri)
	if uri == "" {
		return nil, jsonrpc.NewInvalidRequest("missing resource uri", nil)
	}

	refs := r.model.GetResourcesForGroups(r.active)
	candidates := catalog.FindMatchingResourceRefs(uri, refs)
	if len(candidates) == 0 {
		return nil, jsonrpc.NewInvalidRequest("unknown resource "+uri, nil)
	}

	var lastErr error
	for _, ref := range candidates {
		res, err := r.proxy.ReadResource(ctx, ref.ServerName, uri)
		if err == nil {
			return res, nil
		}
		lastErr = err
		r.log.Warnf("frontend: resource %s: backend %s failed: %v, trying next candidate", uri, ref.ServerName, err)
	}
	return nil, jsonrpc.NewInternalError("failed to read resource "+uri+" from all backends: "+lastErr.Error(), nil)
}

func (r *Router) ListPrompts(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListPromptsRequest]) (*mcpschema.ListPromptsResult, *jsonrpc.Error) {
	refs := r.model.GetPromptsForGroups(r.active)
	out := make([]mcpschema.Prompt, 0, len(refs))
	for _, ref := range refs {
		out = append(out, r.promptMetadata(ref))
	}
	return &mcpschema.ListPromptsResult{Prompts: out}, nil
}

func (r *Router) GetPrompt(ctx context.Context, req *jsonrpc.TypedRequest[*mcpschema.GetPromptRequest]) (*mcpschema.GetPromptResult, *jsonrpc.Error) {
	if req == nil || req.Request == nil {
		return nil, jsonrpc.NewInvalidRequest("missing request", nil)
	}
	name := strings.TrimSpace(req.Request.Params.Name)
	if name == "" {
		return nil, jsonrpc.NewInvalidRequest("missing prompt name", nil)
	}

	refs := r.model.GetPromptsForGroups(r.active)
	candidates := catalog.FindMatchingPromptRefs(name, refs)
	if len(candidates) == 0 {
		return nil, jsonrpc.NewInvalidRequest("unknown prompt "+name, nil)
	}

	var lastErr error
	for _, ref := range candidates {
		res, err := r.proxy.GetPrompt(ctx, ref.ServerName, name, req.Request.Params.Arguments)
		if err == nil {
			return res, nil
		}
		lastErr = err
		r.log.Warnf("frontend: prompt %s: backend %s failed: %v, trying next candidate", name, ref.ServerName, err)
	}
	return nil, jsonrpc.NewInternalError("failed to get prompt "+name+" from all backends: "+lastErr.Error(), nil)
}

func (r *Router) Subscribe(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.SubscribeRequest]) (*mcpschema.SubscribeResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("subscribe not implemented", nil)
}

func (r *Router) Unsubscribe(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.UnsubscribeRequest]) (*mcpschema.UnsubscribeResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("unsubscribe not implemented", nil)
}

func (r *Router) Complete(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.CompleteRequest]) (*mcpschema.CompleteResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("complete not implemented", nil)
}

// ---------------- mcp-protocol/server.Handler ----------------

func (r *Router) OnNotification(_ context.Context, _ *jsonrpc.Notification) {}

func (r *Router) Implements(method string) bool {
	switch method {
	case "tools/list", "tools/call",
		"resources/list", "resources/templates/list", "resources/read",
		"prompts/list", "prompts/get":
		return true
	default:
		return false
	}
}

// ---------------- helpers ----------------

// findTool resolves a request name to the first ToolOverride whose exposed
// name equals it; failing that, the first whose originalName equals it, so a
// renamed tool stays reachable under its backend name too.
func (r *Router) findTool(exposedName string) (groups.ResolvedTool, bool) {
	tools := r.model.GetToolsForGroups(r.active, r.catalog)
	for _, rt := range tools {
		if rt.Override.ExposedName() == exposedName {
			return rt, true
		}
	}
	for _, rt := range tools {
		if rt.Override.OriginalName == exposedName {
			return rt, true
		}
	}
	return groups.ResolvedTool{}, false
}

func (r *Router) resourceMetadata(ref gwconfig.ResourceRef) mcpschema.Resource {
	for _, res := range r.catalog.Resources[ref.ServerName] {
		if res.Uri == ref.URI {
			return res
		}
	}
	return mcpschema.Resource{Uri: ref.URI}
}

func (r *Router) promptMetadata(ref gwconfig.PromptRef) mcpschema.Prompt {
	for _, p := range r.catalog.Prompts[ref.ServerName] {
		if p.Name == ref.Name {
			return p
		}
	}
	return mcpschema.Prompt{Name: ref.Name}
}
