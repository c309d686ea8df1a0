package main

import (
	"fmt"

	"github.com/mcpgateway/gateway/internal/gwconfig"
)

// loadedConfig bundles both configuration documents after a successful load,
// so every sub-command loads them the same way. Cross-reference validation
// is not done here; `serve` runs gwconfig.ValidateReferences itself against
// the groups it was given.
type loadedConfig struct {
	backends map[string]gwconfig.BackendServerConfig
	groups   map[string]gwconfig.GroupConfig
}

func loadConfig(backendsPath, groupsPath string) (*loadedConfig, error) {
	if backendsPath == "" {
		backendsPath = gwconfig.BackendServersPath()
	}
	if groupsPath == "" {
		groupsPath = gwconfig.GroupsPath()
	}
	backends, err := gwconfig.LoadBackends(backendsPath)
	if err != nil {
		return nil, fmt.Errorf("mcpgateway: %w", err)
	}
	groups, err := gwconfig.LoadGroups(groupsPath)
	if err != nil {
		return nil, fmt.Errorf("mcpgateway: %w", err)
	}
	return &loadedConfig{backends: backends, groups: groups}, nil
}
