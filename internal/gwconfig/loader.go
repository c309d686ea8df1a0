package gwconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// ErrUnsupportedTransport is returned when a backend declares a transport
// variant the serving core recognizes but refuses to dial.
type ErrUnsupportedTransport struct {
	Backend   string
	Transport TransportType
}

func (e *ErrUnsupportedTransport) Error() string {
	return fmt.Sprintf("gwconfig: backend %q: unsupported transport %q", e.Backend, e.Transport)
}

// LoadBackends reads and validates backend-servers.json at path.
func LoadBackends(path string) (map[string]BackendServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gwconfig: read %s: %w", path, err)
	}
	if err := validate(backendsSchema, data, path); err != nil {
		return nil, err
	}
	var doc BackendsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gwconfig: decode %s: %w", path, err)
	}
	for name, backend := range doc.MCPServers {
		if err := backend.Validate(name); err != nil {
			return nil, err
		}
	}
	return doc.MCPServers, nil
}

// LoadGroups reads and validates groups.json at path.
func LoadGroups(path string) (map[string]GroupConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gwconfig: read %s: %w", path, err)
	}
	if err := validate(groupsSchema, data, path); err != nil {
		return nil, err
	}
	var doc GroupsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gwconfig: decode %s: %w", path, err)
	}
	for name, group := range doc.Groups {
		group.Name = name
		doc.Groups[name] = group
	}
	return doc.Groups, nil
}

// ValidateReferences checks that every serverName referenced by a group's
// tools/resources/prompts exists in backends, per GroupConfig's invariant.
func ValidateReferences(groups map[string]GroupConfig, names []string, backends map[string]BackendServerConfig) error {
	for _, name := range names {
		group, ok := groups[name]
		if !ok {
			return fmt.Errorf("gwconfig: group %q not found", name)
		}
		for _, t := range group.Tools {
			if _, ok := backends[t.ServerName]; !ok {
				return fmt.Errorf("gwconfig: group %q: tool %q references undeclared backend %q", name, t.OriginalName, t.ServerName)
			}
		}
		for _, r := range group.Resources {
			if _, ok := backends[r.ServerName]; !ok {
				return fmt.Errorf("gwconfig: group %q: resource %q references undeclared backend %q", name, r.URI, r.ServerName)
			}
		}
		for _, p := range group.Prompts {
			if _, ok := backends[p.ServerName]; !ok {
				return fmt.Errorf("gwconfig: group %q: prompt %q references undeclared backend %q", name, p.Name, p.ServerName)
			}
		}
	}
	return nil
}

func validate(schema string, data []byte, path string) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("gwconfig: schema check %s: %w", path, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("gwconfig: %s failed schema validation: %v", path, msgs)
	}
	return nil
}
