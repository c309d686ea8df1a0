package frontend

import (
	"encoding/json"
	"strings"

	"github.com/mcpgateway/gateway/internal/groups"
	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/xeipuuv/gojsonschema"
)

// exposedTool merges a resolved tool's override onto the backend's own
// advertised definition: name always comes from the override (falling back
// to the backend's original name), description and inputSchema fall back to
// the backend's own metadata wherever the override leaves them unset.
func exposedTool(rt groups.ResolvedTool) mcpschema.Tool {
	t := rt.Backend
	t.Name = rt.Override.ExposedName()
	if rt.Override.Description != "" {
		desc := rt.Override.Description
		t.Description = &desc
	}
	if len(rt.Override.InputSchema) > 0 {
		var schema mcpschema.ToolInputSchema
		if err := json.Unmarshal(rt.Override.InputSchema, &schema); err == nil {
			t.InputSchema = schema
		}
	}
	return t
}

// validateArguments checks backendArgs against the resolved tool's own
// inputSchema. A tool that advertises no schema at all (backend silent and no
// override schema) skips validation — the source does the same, and an
// implementer wishing to fail closed instead would reject here (see
// DESIGN.md's Open Question decision). Returns a non-empty human-readable
// message on failure, empty on success or skip.
func (r *Router) validateArguments(rt groups.ResolvedTool, backendArgs map[string]interface{}) string {
	schema := exposedTool(rt).InputSchema
	if len(schema.Properties) == 0 && len(schema.Required) == 0 {
		r.log.Warnf("frontend: tool %s advertises no inputSchema, skipping argument validation", rt.Override.ExposedName())
		return ""
	}
	schemaDoc, err := json.Marshal(schema)
	if err != nil {
		return "argument validation failed: " + err.Error()
	}
	argsDoc, err := json.Marshal(backendArgs)
	if err != nil {
		return "argument validation failed: " + err.Error()
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaDoc), gojsonschema.NewBytesLoader(argsDoc))
	if err != nil {
		return "argument validation failed: " + err.Error()
	}
	if result.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return "argument validation failed: " + strings.Join(msgs, "; ")
}
