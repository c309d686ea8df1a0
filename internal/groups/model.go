package groups

import (
	"github.com/mcpgateway/gateway/internal/catalog"
	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/mcpgateway/gateway/internal/gwlog"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// ResolvedTool pairs a configured override with the backend's own tool
// definition, so the frontend router can fall back to backend-provided
// name/description/schema wherever the override leaves a field unset.
type ResolvedTool struct {
	Override gwconfig.ToolOverride
	Backend  mcpschema.Tool
}

// Model resolves group names against the loaded groups document. It never
// fails on an unknown group name; unknown names are skipped and logged, per
// the same "skip, don't abort" philosophy the gateway applies to every
// optional cross-reference.
type Model struct {
	groups map[string]gwconfig.GroupConfig
	log    gwlog.Logger
}

// New constructs a Model over an already-loaded groups document.
func New(groupsDoc map[string]gwconfig.GroupConfig, logger gwlog.Logger) *Model {
	if logger == nil {
		logger = gwlog.Discard()
	}
	return &Model{groups: groupsDoc, log: logger}
}

// GetGroup returns one group by name.
func (m *Model) GetGroup(name string) (gwconfig.GroupConfig, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// GetGroups resolves a list of names into their configs, in the order
// given. Names that don't resolve to a known group are skipped with a
// warning rather than causing the whole lookup to fail.
func (m *Model) GetGroups(names []string) []gwconfig.GroupConfig {
	out := make([]gwconfig.GroupConfig, 0, len(names))
	for _, name := range names {
		g, ok := m.groups[name]
		if !ok {
			m.log.Warnf("groups: unknown group %q, skipping", name)
			continue
		}
		out = append(out, g)
	}
	return out
}

// GetRequiredServersForGroups returns the distinct backend server names
// referenced by any tool/resource/prompt in the named groups, in first-seen
// order.
func (m *Model) GetRequiredServersForGroups(names []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(serverName string) {
		if serverName == "" || seen[serverName] {
			return
		}
		seen[serverName] = true
		out = append(out, serverName)
	}
	for _, g := range m.GetGroups(names) {
		for _, t := range g.Tools {
			add(t.ServerName)
		}
		for _, r := range g.Resources {
			add(r.ServerName)
		}
		for _, p := range g.Prompts {
			add(p.ServerName)
		}
	}
	return out
}

// GetToolsForGroups resolves every tool override named by the given groups
// against the backend catalog, in group order then in-group order. A tool
// whose backend doesn't advertise the referenced original name is skipped
// with a warning: the override is config, the backend is runtime truth, and
// runtime truth wins. Ties on exposed name are resolved first-wins, so
// listing a higher-priority group first lets it shadow a later group's
// clashing tool name.
func (m *Model) GetToolsForGroups(names []string, bc *BackendCatalog) []ResolvedTool {
	var overrides []gwconfig.ToolOverride
	resolved := map[string]mcpschema.Tool{}
	for _, g := range m.GetGroups(names) {
		for _, t := range g.Tools {
			backendTool, ok := bc.FindTool(t.ServerName, t.OriginalName)
			if !ok {
				m.log.Warnf("groups: tool %s/%s not advertised by backend, skipping", t.ServerName, t.OriginalName)
				continue
			}
			overrides = append(overrides, t)
			resolved[t.ServerName+"\x00"+t.OriginalName] = backendTool
		}
	}
	deduped := catalog.DeduplicateTools(overrides)
	out := make([]ResolvedTool, 0, len(deduped))
	for _, t := range deduped {
		out = append(out, ResolvedTool{Override: t, Backend: resolved[t.ServerName+"\x00"+t.OriginalName]})
	}
	return out
}

// GetResourcesForGroups returns every resource reference named by the given
// groups, deduplicated by URI, first occurrence wins.
func (m *Model) GetResourcesForGroups(names []string) []gwconfig.ResourceRef {
	var refs []gwconfig.ResourceRef
	for _, g := range m.GetGroups(names) {
		refs = append(refs, g.Resources...)
	}
	return catalog.DeduplicateResources(refs)
}

// GetPromptsForGroups returns every prompt reference named by the given
// groups, deduplicated by name, first occurrence wins.
func (m *Model) GetPromptsForGroups(names []string) []gwconfig.PromptRef {
	var refs []gwconfig.PromptRef
	for _, g := range m.GetGroups(names) {
		refs = append(refs, g.Prompts...)
	}
	return catalog.DeduplicatePrompts(refs)
}
