// Package paths resolves the locations rulesplit reads and writes outside
// of its targets.
//
// It follows the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/rulesplit (config.toml, config.yaml or config.yml)
//   - State: $XDG_STATE_HOME/rulesplit (rulesplit.log)
//
// # Environment Variables
//
//   - RULESPLIT_CONFIG_DIR: Override the config directory
//   - RULESPLIT_STATE_DIR: Override the state directory
//
// The environment is read on every call, so changes made after start-up
// (as tests do with t.Setenv) are honored.
package paths
