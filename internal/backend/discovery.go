package backend

import (
	"context"

	"github.com/mcpgateway/gateway/internal/groups"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"
)

// DiscoverCatalog calls tools/list, resources/list and prompts/list against
// every connected backend in names, paging through NextCursor the same way
// the teacher's own MCP tool registration walks a result set, and assembles
// the results into a BackendCatalog the group model can resolve overrides
// against. A backend that fails any one of the three listings is skipped
// entirely with a warning rather than aborting discovery for the others —
// one misbehaving backend should not keep every other group from serving.
func (m *ClientManager) DiscoverCatalog(ctx context.Context, names []string) *groups.BackendCatalog {
	bc := groups.NewBackendCatalog()
	for _, name := range names {
		cli, err := m.EnsureConnected(ctx, name)
		if err != nil {
			m.log.Warnf("backend: %s: discovery skipped, not connected: %v", name, err)
			continue
		}

		tools, err := listAllTools(ctx, cli)
		if err != nil {
			m.log.Warnf("backend: %s: tools/list failed: %v", name, err)
			continue
		}
		resources, err := listAllResources(ctx, cli)
		if err != nil {
			m.log.Warnf("backend: %s: resources/list failed: %v", name, err)
			continue
		}
		prompts, err := listAllPrompts(ctx, cli)
		if err != nil {
			m.log.Warnf("backend: %s: prompts/list failed: %v", name, err)
			continue
		}

		bc.Tools[name] = tools
		bc.Resources[name] = resources
		bc.Prompts[name] = prompts
		m.log.Infof("backend: %s: discovered %d tools, %d resources, %d prompts", name, len(tools), len(resources), len(prompts))
	}
	return bc
}

func listAllTools(ctx context.Context, cli mcpclient.Interface) ([]mcpschema.Tool, error) {
	var out []mcpschema.Tool
	var cursor *string
	for {
		res, err := cli.ListTools(ctx, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Tools...)
		if res.NextCursor == nil || *res.NextCursor == "" {
			return out, nil
		}
		cursor = res.NextCursor
	}
}

func listAllResources(ctx context.Context, cli mcpclient.Interface) ([]mcpschema.Resource, error) {
	var out []mcpschema.Resource
	var cursor *string
	for {
		res, err := cli.ListResources(ctx, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Resources...)
		if res.NextCursor == nil || *res.NextCursor == "" {
			return out, nil
		}
		cursor = res.NextCursor
	}
}

func listAllPrompts(ctx context.Context, cli mcpclient.Interface) ([]mcpschema.Prompt, error) {
	var out []mcpschema.Prompt
	var cursor *string
	for {
		res, err := cli.ListPrompts(ctx, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Prompts...)
		if res.NextCursor == nil || *res.NextCursor == "" {
			return out, nil
		}
		cursor = res.NextCursor
	}
}
