// Package cli implements the loanrisk-admin command-line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the base command of the `loanrisk-admin` binary with all
// of its subcommands attached.
// NewRootCmd 构建 `loanrisk-admin` 二进制文件的基本命令，并挂载所有子命令。
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loanrisk-admin",
		Short: "A CLI tool for administering the loan default risk service.",
		Long: `loanrisk-admin inspects model artifacts and scores client records
offline, using the same classifier code as the service.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newModelCmd(), newPredictCmd())
	return rootCmd
}

// Execute is the main entry point for the CLI application.
// It parses the command-line arguments and executes the appropriate command.
// If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
