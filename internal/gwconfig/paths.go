package gwconfig

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

const envConfigDir = "MCPGATEWAY_CONFIG_DIR"

// ConfigDir resolves the directory the two configuration documents live in,
// generalizing the single-env-var scheme of a typical workspace root into a
// platform-aware XDG / macOS / Windows lookup.
//
//  1. $MCPGATEWAY_CONFIG_DIR, if set.
//  2. Linux:   $XDG_CONFIG_HOME/mcpgateway, else ~/.config/mcpgateway.
//  3. macOS:   ~/Library/Application Support/mcpgateway.
//  4. Windows: %AppData%\mcpgateway.
func ConfigDir() string {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "mcpgateway")
	case "windows":
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "mcpgateway")
		}
		return filepath.Join(home, "AppData", "Roaming", "mcpgateway")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "mcpgateway")
		}
		return filepath.Join(home, ".config", "mcpgateway")
	}
}

// BackendServersPath returns the path to backend-servers.json.
func BackendServersPath() string {
	return filepath.Join(ConfigDir(), "backend-servers.json")
}

// GroupsPath returns the path to groups.json.
func GroupsPath() string {
	return filepath.Join(ConfigDir(), "groups.json")
}

// EnsureConfigDir creates the resolved config directory, recursively, if it
// does not already exist. It uses afs.Service rather than os.MkdirAll so the
// same call works unmodified if ConfigDir ever resolves to a remote URL
// scheme afs supports.
func EnsureConfigDir(ctx context.Context, fs afs.Service) error {
	dir := ConfigDir()
	exists, err := fs.Exists(ctx, dir)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return fs.Create(ctx, dir, file.DefaultDirOsMode, true)
}
