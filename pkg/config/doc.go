// Package config handles configuration management for rulesplit.
//
// Configuration is layered with koanf. Later layers win:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. a user file in TOML or YAML: the --config flag, $RULESPLIT_CONFIG, or
//     $XDG_CONFIG_HOME/rulesplit/config.toml when it exists
//  3. RULESPLIT_ environment variables, with "__" separating sections
//     (RULESPLIT_SOURCE__TIMEOUT=10s)
//  4. command-line overrides
//
// Lists are replaced, not merged: a user file that declares targets owns the
// whole target list.
package config
