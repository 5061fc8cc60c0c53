package rulesplit

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Split a grouped rule list into per-target files"
	MsgRunShort        = "Fetch the source and write every target"
	MsgGroupsShort     = "List the groups found in the source"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat = "rulesplit version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrFormat     = "invalid --format %q: %w"
	MsgErrDumpFormat = "invalid --format %q: expected toml or yaml"
	MsgErrRender     = "failed to render output: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Fetch and select without writing any file"
	MsgFlagConfig   = "Path to a configuration file (.toml, .yaml or .yml)"
	MsgFlagURL      = "Override the source URL"
	MsgFlagTimeout  = "Override the fetch timeout (e.g. 10s)"
	MsgFlagInsecure = "Skip TLS certificate verification for the source"
	MsgFlagFormat   = "Output format: auto, term, text, json, yaml or md"
	MsgFlagLines    = "Include the lines of every group"
	MsgFlagDumpFmt  = "Output format: toml or yaml"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/groups-long.txt
	msgGroupsLongRaw string
	MsgGroupsLong    = strings.TrimSpace(msgGroupsLongRaw)

	//go:embed msgs/groups-example.txt
	msgGroupsExampleRaw string
	MsgGroupsExample    = strings.TrimRight(msgGroupsExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/config-example.txt
	msgConfigExampleRaw string
	MsgConfigExample    = strings.TrimRight(msgConfigExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
