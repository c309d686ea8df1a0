// Package argmap applies a configured ArgumentMapping to a client's tool
// call arguments, producing the argument object a backend expects. Rewrites
// are expressed as gjson/sjson path operations over a JSON buffer rather
// than ad-hoc map surgery, the same style the pack reaches for whenever it
// needs to reshape untyped JSON.
package argmap

import (
	"encoding/json"
	"fmt"

	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Transform applies mapping to clientArgs, returning the backend argument
// object. A jsonata mapping (or nil mapping) passes clientArgs through
// unchanged, since evaluating jsonata expressions is out of scope for the
// core.
func Transform(clientArgs map[string]interface{}, mapping *gwconfig.ArgumentMapping) (map[string]interface{}, error) {
	if mapping == nil || mapping.Type == gwconfig.ArgumentMappingJSONata {
		return clientArgs, nil
	}
	if mapping.Type != gwconfig.ArgumentMappingTemplate {
		return clientArgs, nil
	}

	raw, err := json.Marshal(clientArgs)
	if err != nil {
		return nil, fmt.Errorf("argmap: marshal client arguments: %w", err)
	}
	doc := string(raw)
	if doc == "" || doc == "null" {
		doc = "{}"
	}

	for backendName, rule := range mapping.Mappings {
		doc, err = applyRule(doc, backendName, rule, clientArgs)
		if err != nil {
			return nil, err
		}
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, fmt.Errorf("argmap: unmarshal transformed arguments: %w", err)
	}
	return out, nil
}

func applyRule(doc, backendName string, rule gwconfig.ParameterMapping, clientArgs map[string]interface{}) (string, error) {
	switch rule.Kind {
	case gwconfig.ParamPassthrough:
		if rule.Name != "" && rule.Name != backendName {
			return renameKey(doc, rule.Source, rule.Name)
		}
		return doc, nil

	case gwconfig.ParamConstant:
		next, err := sjson.Set(doc, backendName, rule.Value)
		if err != nil {
			return "", fmt.Errorf("argmap: set constant %q: %w", backendName, err)
		}
		return next, nil

	case gwconfig.ParamDefault:
		target := backendName
		if rule.Name != "" {
			target = rule.Name
		}
		value, hasValue := clientArgs[rule.Source]
		if !hasValue {
			value = rule.Default
		}
		next, err := sjson.Set(doc, target, value)
		if err != nil {
			return "", fmt.Errorf("argmap: set default %q: %w", target, err)
		}
		if target != rule.Source {
			next, err = sjson.Delete(next, rule.Source)
			if err != nil {
				return "", fmt.Errorf("argmap: delete default source %q: %w", rule.Source, err)
			}
		}
		return next, nil

	case gwconfig.ParamRename:
		return renameKey(doc, rule.Source, rule.Name)

	case gwconfig.ParamOmit:
		next, err := sjson.Delete(doc, backendName)
		if err != nil {
			return "", fmt.Errorf("argmap: omit %q: %w", backendName, err)
		}
		return next, nil

	default:
		return doc, nil
	}
}

func renameKey(doc, source, target string) (string, error) {
	value := gjson.Get(doc, source)
	next, err := sjson.Delete(doc, source)
	if err != nil {
		return "", fmt.Errorf("argmap: delete source %q: %w", source, err)
	}
	if !value.Exists() {
		return next, nil
	}
	next, err = sjson.Set(next, target, value.Value())
	if err != nil {
		return "", fmt.Errorf("argmap: set target %q: %w", target, err)
	}
	return next, nil
}
