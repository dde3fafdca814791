// Package cli wires the Runner Façade (C7), config loader (A3), Delve
// host (A2) and report renderers (A5) into a Cobra command tree, in the
// style of the pack's own defuzz CLI (cmd/defuzz/app): one NewXxxCommand
// constructor per subcommand, flags bound with cobra.Command.Flags, a
// root command that only AddCommands its children.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the covrun root command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covrun",
		Short: "Native code-coverage runner built on a headless Delve debug session.",
		Long: `covrun launches a target process under a debugger, instruments every
line reachable through its debug info with a breakpoint, and reports which
lines actually executed before the process exited.`,
	}

	cmd.AddCommand(NewRunCommand())
	return cmd
}
