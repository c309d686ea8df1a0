package gwconfig

// backendsSchema and groupsSchema are the JSON Schema documents each
// configuration file is validated against before being decoded into Go
// structs. Decoding into typed structs is itself what "strips" unknown
// keys — encoding/json silently drops fields with no matching struct tag —
// the schema's job is only to catch missing required fields and wrong
// value types early, with a message that names the offending document.
const backendsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["mcpServers"],
  "properties": {
    "mcpServers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "command": {"type": "string"},
          "args": {"type": "array", "items": {"type": "string"}},
          "env": {"type": "object", "additionalProperties": {"type": "string"}},
          "url": {"type": "string"}
        }
      }
    }
  }
}`

const groupsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["groups"],
  "properties": {
    "groups": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "description": {"type": "string"},
          "tools": {"type": "array"},
          "resources": {"type": "array"},
          "prompts": {"type": "array"}
        }
      }
    }
  }
}`

// Transformed tool arguments are validated (in internal/frontend) against
// the backend tool's own inputSchema verbatim, since it is already a full
// JSON Schema document; no schema for them is declared here.
