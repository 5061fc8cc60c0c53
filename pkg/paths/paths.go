package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName names the XDG subdirectories and the log file
	AppName = "rulesplit"

	// EnvConfigDir overrides the config directory
	EnvConfigDir = "RULESPLIT_CONFIG_DIR"
	// EnvStateDir overrides the state directory
	EnvStateDir = "RULESPLIT_STATE_DIR"
)

// ConfigFileNames are the user config file names, in lookup order
var ConfigFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// ConfigDir returns the directory holding the user config file
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return expandHome(dir)
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StateDir returns the directory for state such as the log file
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	xdg.Reload()
	return filepath.Join(xdg.StateHome, AppName)
}

// LogFilePath returns the path of the log file
func LogFilePath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

// UserConfigPath returns the first existing config file in ConfigDir, or
// the TOML path when none exists. found reports whether a file exists.
func UserConfigPath() (path string, found bool) {
	dir := ConfigDir()
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return filepath.Join(dir, ConfigFileNames[0]), false
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
