// Package groups resolves named tool/resource/prompt groups against a
// backend catalog, applying tool overrides and priority-ordered
// deduplication. It owns no network state: the catalog it consults is
// populated by the client manager once backends are connected.
package groups

import (
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// BackendCatalog is the set of tools/resources/prompts discovered on each
// connected backend, keyed by backend server name. The client manager
// populates this after a successful ListTools/ListResources/ListPrompts
// round-trip; the group model only reads it.
type BackendCatalog struct {
	Tools     map[string][]mcpschema.Tool
	Resources map[string][]mcpschema.Resource
	Prompts   map[string][]mcpschema.Prompt
}

// NewBackendCatalog returns an empty catalog ready for population.
func NewBackendCatalog() *BackendCatalog {
	return &BackendCatalog{
		Tools:     map[string][]mcpschema.Tool{},
		Resources: map[string][]mcpschema.Resource{},
		Prompts:   map[string][]mcpschema.Prompt{},
	}
}

// FindTool returns the backend's advertised tool definition by original
// name, if the backend is known to the catalog and advertises it.
func (c *BackendCatalog) FindTool(serverName, originalName string) (mcpschema.Tool, bool) {
	for _, t := range c.Tools[serverName] {
		if t.Name == originalName {
			return t, true
		}
	}
	return mcpschema.Tool{}, false
}
