package main

import (
	"github.com/zhlinh/ccgo-sub000/internal/app/cli"
	"github.com/zhlinh/ccgo-sub000/internal/app/cli/root"
)

func main() {
	rootCmd := root.GetRootCmd()

	// Register all commands
	rootCmd.AddCommand(cli.NewCmd())
	rootCmd.AddCommand(cli.BuildCmd())
	rootCmd.AddCommand(cli.BuildAllCmd())
	rootCmd.AddCommand(cli.BuildAppleCmd())
	rootCmd.AddCommand(cli.CleanCmd())
	rootCmd.AddCommand(cli.TestCmd())
	rootCmd.AddCommand(cli.BenchCmd())
	rootCmd.AddCommand(cli.InfoCmd())
	rootCmd.AddCommand(cli.ToolchainCmd())

	root.Execute()
}
