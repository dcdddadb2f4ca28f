package root

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zhlinh/ccgo-sub000/internal/app/cli"
)

var rootCmd = &cobra.Command{
	Use:   "ccgo",
	Short: "Multi-platform native build orchestrator",
	Long: `ccgo - multi-platform native build orchestrator

Build and package a C/C++ library for Android, OHOS, the Apple
platforms, Linux, Windows, KMP and Conan from one project descriptor,
with a container fallback when the host lacks a toolchain.`,
	Version: cli.Version,
	// Don't show usage on errors by default
	SilenceUsage:  true,
	SilenceErrors: true, // handle printing ourselves in Execute
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command (for testing or extending)
func GetRootCmd() *cobra.Command {
	return rootCmd
}
