package argmap

import (
	"testing"

	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformPassthroughIdentity(t *testing.T) {
	// Property law 1: empty rule set is a structural identity transform.
	clientArgs := map[string]interface{}{"a": float64(1), "b": float64(2)}
	mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingTemplate, Mappings: map[string]gwconfig.ParameterMapping{}}
	out, err := Transform(clientArgs, mapping)
	require.NoError(t, err)
	assert.Equal(t, clientArgs, out)
}

func TestTransformJSONataPassesThrough(t *testing.T) {
	clientArgs := map[string]interface{}{"a": float64(1)}
	mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingJSONata, Expression: "$.a"}
	out, err := Transform(clientArgs, mapping)
	require.NoError(t, err)
	assert.Equal(t, clientArgs, out)
}

func TestTransformConstant(t *testing.T) {
	// Property law 2: constant idempotence regardless of clientArgs[k].
	testCases := []struct {
		description string
		clientArgs  map[string]interface{}
	}{
		{description: "key absent", clientArgs: map[string]interface{}{}},
		{description: "key present with different value", clientArgs: map[string]interface{}{"n": float64(99)}},
	}
	for _, tc := range testCases {
		mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingTemplate, Mappings: map[string]gwconfig.ParameterMapping{
			"n": {Kind: gwconfig.ParamConstant, Value: "x"},
		}}
		out, err := Transform(tc.clientArgs, mapping)
		require.NoError(t, err, tc.description)
		assert.Equal(t, "x", out["n"], tc.description)
	}
}

func TestTransformOmit(t *testing.T) {
	// Property law 3: omit removes the key.
	clientArgs := map[string]interface{}{"n": float64(1), "keep": float64(2)}
	mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingTemplate, Mappings: map[string]gwconfig.ParameterMapping{
		"n": {Kind: gwconfig.ParamOmit},
	}}
	out, err := Transform(clientArgs, mapping)
	require.NoError(t, err)
	_, present := out["n"]
	assert.False(t, present)
	assert.Equal(t, float64(2), out["keep"])
}

func TestTransformRename(t *testing.T) {
	clientArgs := map[string]interface{}{"old": "value"}
	mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingTemplate, Mappings: map[string]gwconfig.ParameterMapping{
		"new": {Kind: gwconfig.ParamRename, Source: "old", Name: "new"},
	}}
	out, err := Transform(clientArgs, mapping)
	require.NoError(t, err)
	assert.Equal(t, "value", out["new"])
	_, present := out["old"]
	assert.False(t, present)
}

func TestTransformDefault(t *testing.T) {
	testCases := []struct {
		description string
		clientArgs  map[string]interface{}
		expect      interface{}
	}{
		{description: "source present", clientArgs: map[string]interface{}{"src": "given"}, expect: "given"},
		{description: "source missing uses default", clientArgs: map[string]interface{}{}, expect: "fallback"},
	}
	for _, tc := range testCases {
		mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingTemplate, Mappings: map[string]gwconfig.ParameterMapping{
			"dst": {Kind: gwconfig.ParamDefault, Source: "src", Default: "fallback", Name: "dst"},
		}}
		out, err := Transform(tc.clientArgs, mapping)
		require.NoError(t, err, tc.description)
		assert.Equal(t, tc.expect, out["dst"], tc.description)
	}
}

func TestTransformUnmappedKeysPassthrough(t *testing.T) {
	clientArgs := map[string]interface{}{"n": float64(1), "other": "untouched"}
	mapping := &gwconfig.ArgumentMapping{Type: gwconfig.ArgumentMappingTemplate, Mappings: map[string]gwconfig.ParameterMapping{
		"n": {Kind: gwconfig.ParamConstant, Value: float64(5)},
	}}
	out, err := Transform(clientArgs, mapping)
	require.NoError(t, err)
	assert.Equal(t, "untouched", out["other"])
}
