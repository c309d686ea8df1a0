package gwconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBackends(t *testing.T) {
	testCases := []struct {
		description string
		content     string
		expectErr   bool
	}{
		{
			description: "valid stdio backend",
			content:     `{"mcpServers":{"calc":{"command":"calc-server","args":["--stdio"]}}}`,
		},
		{
			description: "missing command fails validation",
			content:     `{"mcpServers":{"calc":{"args":["--stdio"]}}}`,
			expectErr:   true,
		},
		{
			description: "malformed json fails",
			content:     `{not json`,
			expectErr:   true,
		},
	}
	for _, tc := range testCases {
		path := writeTemp(t, "backend-servers.json", tc.content)
		backends, err := LoadBackends(path)
		if tc.expectErr {
			assert.Error(t, err, tc.description)
			continue
		}
		require.NoError(t, err, tc.description)
		assert.Equal(t, "calc-server", backends["calc"].Command, tc.description)
		assert.Equal(t, TransportStdio, backends["calc"].Type, tc.description)
	}
}

func TestLoadGroups(t *testing.T) {
	content := `{"groups":{"G":{"tools":[{"serverName":"calc","originalName":"add","name":"sum"}]}}}`
	path := writeTemp(t, "groups.json", content)
	groups, err := LoadGroups(path)
	require.NoError(t, err)
	group, ok := groups["G"]
	require.True(t, ok)
	assert.Equal(t, "G", group.Name)
	assert.Equal(t, "sum", group.Tools[0].ExposedName())
}

func TestValidateReferences(t *testing.T) {
	backends := map[string]BackendServerConfig{"calc": {Type: TransportStdio, Command: "calc-server"}}
	groups := map[string]GroupConfig{
		"G": {Name: "G", Tools: []ToolOverride{{ServerName: "calc", OriginalName: "add"}}},
		"H": {Name: "H", Tools: []ToolOverride{{ServerName: "missing", OriginalName: "x"}}},
	}
	assert.NoError(t, ValidateReferences(groups, []string{"G"}, backends))
	assert.Error(t, ValidateReferences(groups, []string{"H"}, backends))
}

func TestBackendServerConfigValidate(t *testing.T) {
	testCases := []struct {
		description string
		cfg         BackendServerConfig
		expectErr   bool
	}{
		{description: "valid stdio", cfg: BackendServerConfig{Type: TransportStdio, Command: "x"}},
		{description: "empty command", cfg: BackendServerConfig{Type: TransportStdio}, expectErr: true},
		{description: "invalid env name", cfg: BackendServerConfig{Type: TransportStdio, Command: "x", Env: map[string]string{"1BAD": "v"}}, expectErr: true},
		{description: "non-stdio skips command check", cfg: BackendServerConfig{Type: TransportSSE, URL: "http://x"}},
	}
	for _, tc := range testCases {
		err := tc.cfg.Validate("name")
		if tc.expectErr {
			assert.Error(t, err, tc.description)
		} else {
			assert.NoError(t, err, tc.description)
		}
	}
}
