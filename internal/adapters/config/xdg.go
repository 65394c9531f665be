package config

import (
	"os"
	"path/filepath"
)

// XDGPathResolver locates the global config file under os.UserConfigDir,
// falling back to the current directory when that fails (no third-party XDG library appears anywhere in the
// example pack, so this one stays on the standard library rather than
// pulling in a dependency with no demonstrated pack usage).
type XDGPathResolver struct {
	configDir string
}

func NewXDGPathResolver() XDGPathResolver {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return XDGPathResolver{configDir: filepath.Join(dir, "pylon")}
}

// ConfigFile returns the path to the global pylon config.toml.
func (r XDGPathResolver) ConfigFile() string {
	return filepath.Join(r.configDir, "config.toml")
}
