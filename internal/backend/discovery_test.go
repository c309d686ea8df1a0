package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/mcpgateway/gateway/internal/gwlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"
)

type discoveryFakeClient struct {
	toolPages     [][]mcpschema.Tool
	resourcePages [][]mcpschema.Resource
	promptPages   [][]mcpschema.Prompt
}

func cursorFor(i, total int) *string {
	if i >= total-1 {
		return nil
	}
	s := ""
	switch i {
	case 0:
		s = "page-1"
	default:
		s = "page-n"
	}
	return &s
}

func (f *discoveryFakeClient) Initialize(ctx context.Context, options ...mcpclient.RequestOption) (*mcpschema.InitializeResult, error) {
	return &mcpschema.InitializeResult{}, nil
}
func (f *discoveryFakeClient) ListResourceTemplates(ctx context.Context, cursor *string, options ...mcpclient.RequestOption) (*mcpschema.ListResourceTemplatesResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) ListResources(ctx context.Context, cursor *string, options ...mcpclient.RequestOption) (*mcpschema.ListResourcesResult, error) {
	idx := pageIndex(cursor)
	if idx >= len(f.resourcePages) {
		return &mcpschema.ListResourcesResult{}, nil
	}
	return &mcpschema.ListResourcesResult{Resources: f.resourcePages[idx], NextCursor: cursorFor(idx, len(f.resourcePages))}, nil
}
func (f *discoveryFakeClient) ListPrompts(ctx context.Context, cursor *string, options ...mcpclient.RequestOption) (*mcpschema.ListPromptsResult, error) {
	idx := pageIndex(cursor)
	if idx >= len(f.promptPages) {
		return &mcpschema.ListPromptsResult{}, nil
	}
	return &mcpschema.ListPromptsResult{Prompts: f.promptPages[idx], NextCursor: cursorFor(idx, len(f.promptPages))}, nil
}
func (f *discoveryFakeClient) ListTools(ctx context.Context, cursor *string, options ...mcpclient.RequestOption) (*mcpschema.ListToolsResult, error) {
	idx := pageIndex(cursor)
	if idx >= len(f.toolPages) {
		return &mcpschema.ListToolsResult{}, nil
	}
	return &mcpschema.ListToolsResult{Tools: f.toolPages[idx], NextCursor: cursorFor(idx, len(f.toolPages))}, nil
}
func (f *discoveryFakeClient) ReadResource(ctx context.Context, params *mcpschema.ReadResourceRequestParams, options ...mcpclient.RequestOption) (*mcpschema.ReadResourceResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) GetPrompt(ctx context.Context, params *mcpschema.GetPromptRequestParams, options ...mcpclient.RequestOption) (*mcpschema.GetPromptResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) CallTool(ctx context.Context, params *mcpschema.CallToolRequestParams, options ...mcpclient.RequestOption) (*mcpschema.CallToolResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) Complete(ctx context.Context, params *mcpschema.CompleteRequestParams, options ...mcpclient.RequestOption) (*mcpschema.CompleteResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) Ping(ctx context.Context, params *mcpschema.PingRequestParams, options ...mcpclient.RequestOption) (*mcpschema.PingResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) Subscribe(ctx context.Context, params *mcpschema.SubscribeRequestParams, options ...mcpclient.RequestOption) (*mcpschema.SubscribeResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) Unsubscribe(ctx context.Context, params *mcpschema.UnsubscribeRequestParams, options ...mcpclient.RequestOption) (*mcpschema.UnsubscribeResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) SetLevel(ctx context.Context, params *mcpschema.SetLevelRequestParams, options ...mcpclient.RequestOption) (*mcpschema.SetLevelResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) ListRoots(ctx context.Context, params *mcpschema.ListRootsRequestParams, options ...mcpclient.RequestOption) (*mcpschema.ListRootsResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) CreateMessage(ctx context.Context, params *mcpschema.CreateMessageRequestParams, options ...mcpclient.RequestOption) (*mcpschema.CreateMessageResult, error) {
	return nil, errors.New("not implemented")
}
func (f *discoveryFakeClient) Elicit(ctx context.Context, params *mcpschema.ElicitRequestParams, options ...mcpclient.RequestOption) (*mcpschema.ElicitResult, error) {
	return nil, errors.New("not implemented")
}

func pageIndex(cursor *string) int {
	if cursor == nil {
		return 0
	}
	if *cursor == "page-1" {
		return 1
	}
	return 2
}

func TestDiscoverCatalogPagesThroughAllListings(t *testing.T) {
	cli := &discoveryFakeClient{
		toolPages:     [][]mcpschema.Tool{{{Name: "a"}}, {{Name: "b"}}},
		resourcePages: [][]mcpschema.Resource{{{Uri: "file:///x"}}},
		promptPages:   [][]mcpschema.Prompt{{{Name: "p1"}}},
	}
	m := New(map[string]gwconfig.BackendServerConfig{"svc": {Type: gwconfig.TransportStdio, Command: "unused"}}, gwlog.Discard())
	require.NoError(t, ForceConnectedForTest(m, "svc", cli))

	bc := m.DiscoverCatalog(context.Background(), []string{"svc"})
	require.Len(t, bc.Tools["svc"], 2)
	assert.Equal(t, "a", bc.Tools["svc"][0].Name)
	assert.Equal(t, "b", bc.Tools["svc"][1].Name)
	require.Len(t, bc.Resources["svc"], 1)
	require.Len(t, bc.Prompts["svc"], 1)
}

func TestDiscoverCatalogSkipsUnreachableBackend(t *testing.T) {
	m := New(nil, gwlog.Discard())

	bc := m.DiscoverCatalog(context.Background(), []string{"unknown"})
	assert.Empty(t, bc.Tools)
	assert.Empty(t, bc.Resources)
	assert.Empty(t, bc.Prompts)
}

func TestDiscoverCatalogSkipsBackendOnListError(t *testing.T) {
	cli := &discoveryFakeClient{} // empty pages trigger errors.New below via override
	failing := &failingListClient{discoveryFakeClient: cli}
	m := New(map[string]gwconfig.BackendServerConfig{"svc": {Type: gwconfig.TransportStdio, Command: "unused"}}, gwlog.Discard())
	require.NoError(t, ForceConnectedForTest(m, "svc", failing))

	bc := m.DiscoverCatalog(context.Background(), []string{"svc"})
	assert.Empty(t, bc.Tools["svc"])
}

type failingListClient struct {
	*discoveryFakeClient
}

func (f *failingListClient) ListTools(ctx context.Context, cursor *string, options ...mcpclient.RequestOption) (*mcpschema.ListToolsResult, error) {
	return nil, errors.New("backend exploded")
}
