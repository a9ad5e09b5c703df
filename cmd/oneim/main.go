// Command oneim is the thin CLI entry point over internal/pipeline: it
// never implements compiler logic itself, only file/process plumbing.
// Built around build/run subcommands and shebang shorthand, using cobra
// for subcommand dispatch instead of hand-rolled flag parsing.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cfg config

func main() {
	cfg = loadConfig()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "oneim [file.oneim]",
		Short: "Compiler for the oneim language, emitting C11 and invoking a host compiler",
		Args:  cobra.ArbitraryArgs,
		// `oneim <file>` (and a `#!` line naming oneim) is shorthand for `oneim run <file>`.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return newRunCmd().RunE(cmd, args)
		},
	}
	root.AddCommand(newBuildCmd(), newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(versionString)
			return nil
		},
	}
}

const versionString = "oneim 0.1.0"
