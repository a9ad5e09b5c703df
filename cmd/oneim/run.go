package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "run <file.oneim> [-- args...]",
		Short:              "compile a source file and immediately execute it",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			runArgs := args[1:]

			tmpDir, err := os.MkdirTemp("", "oneim-run-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmpDir)

			bin, err := buildFile(source, filepath.Join(tmpDir, "a.out"))
			if err != nil {
				return err
			}
			if cfg.Verbose {
				fmt.Fprintln(os.Stderr, color.CyanString("run"), bin, runArgs)
			}

			runCmd := exec.Command(bin, runArgs...)
			runCmd.Stdin = os.Stdin
			runCmd.Stdout = os.Stdout
			runCmd.Stderr = os.Stderr
			if err := runCmd.Run(); err != nil {
				return &exitError{code: exitStatusOf(err), err: err}
			}
			return nil
		},
	}
	return cmd
}
