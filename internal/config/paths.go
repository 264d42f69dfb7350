// Package config resolves the per-user directory where gtmctl keeps its
// credential and auth-method files.
package config

import (
	"os"
	"path/filepath"
)

const appDirName = "gtmctl"

// EnvConfigDir overrides the config directory entirely when set.
const EnvConfigDir = "GTMCTL_CONFIG_DIR"

// Dir returns the gtmctl config directory. Resolution is an ordered list
// evaluated first-match-wins: the explicit override variable, XDG config
// home, the platform config directory, then a home-relative fallback.
func Dir() string {
	resolvers := []func() (string, bool){
		fromEnvOverride,
		fromXDGConfigHome,
		fromUserConfigDir,
	}
	for _, resolve := range resolvers {
		if dir, ok := resolve(); ok {
			return dir
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDirName)
}

func fromEnvOverride() (string, bool) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, true
	}
	return "", false
}

func fromXDGConfigHome() (string, bool) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appDirName), true
	}
	return "", false
}

func fromUserConfigDir() (string, bool) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(base, appDirName), true
}
