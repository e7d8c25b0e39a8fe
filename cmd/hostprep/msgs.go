package hostprep

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Provision a Linux workstation from plain list files"
	MsgRunShort        = "Check, select, confirm and execute provisioning tasks"
	MsgPlanShort       = "Show what each task would do, without changing anything"
	MsgTasksShort      = "List the available tasks in run order"
	MsgConfigShort     = "Print the effective configuration"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Configuration file (default $XDG_CONFIG_HOME/hostprep/config.toml)"
	MsgFlagRoot     = "Provisioning root holding the list files (default: git root or $HOSTPREP_ROOT)"
	MsgFlagYes      = "Run all selected tasks on every pending item without prompting"
	MsgFlagPlain    = "Plain output without animation or colour"
	MsgFlagDryRun   = "Stop after the plan and print it"
	MsgFlagOutput   = "Output format: text, json or yaml"
	MsgFlagDefaults = "Print the commented default configuration instead"

	// Status messages
	MsgNothingPending = "Everything is already in place."
	MsgLogFileHint    = "Details were written to %s"

	// Error messages
	MsgErrInitPaths   = "failed to initialize paths: %w"
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrBuildTasks  = "failed to build tasks: %w"
	MsgErrTasksFailed = "%d task(s) failed"
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

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
