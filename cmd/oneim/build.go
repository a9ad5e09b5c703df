package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/onelang/oneim/internal/codegen"
	"github.com/onelang/oneim/internal/diag"
	"github.com/onelang/oneim/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func newBuildCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build <file.oneim>",
		Short: "compile a source file to a native executable via C11",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bin, err := buildFile(args[0], output)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				fmt.Fprintln(os.Stderr, color.GreenString("built"), bin)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output executable path (defaults to the input name without extension)")
	return cmd
}

// buildFile drives the full pipeline over path and hands the generated C
// to the host compiler named by cfg.CC, returning the built binary's path.
func buildFile(path, output string) (string, error) {
	pipeline.Verbose = cfg.Verbose

	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	result, err := pipeline.Run(string(source), codegen.Options{EmitPragmaOMP: cfg.EmitOMP})
	if err != nil {
		return "", formatDiag(err)
	}

	if output == "" {
		output = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cSource, err := os.CreateTemp("", "oneim-*.c")
	if err != nil {
		return "", err
	}
	defer os.Remove(cSource.Name())
	if _, err := cSource.WriteString(result.C); err != nil {
		return "", err
	}
	if err := cSource.Close(); err != nil {
		return "", err
	}

	ccArgs := []string{"-O3", "-march=native", "-pthread"}
	if cfg.EmitOMP {
		ccArgs = append(ccArgs, "-fopenmp")
	}
	if cfg.CFLAGS != "" {
		ccArgs = append(ccArgs, strings.Fields(cfg.CFLAGS)...)
	}
	ccArgs = append(ccArgs, cSource.Name(), "-o", output)

	if cfg.Verbose {
		fmt.Fprintln(os.Stderr, color.CyanString("cc"), cfg.CC, strings.Join(ccArgs, " "))
	}

	ccCmd := exec.Command(cfg.CC, ccArgs...)
	ccCmd.Stdout = os.Stdout
	ccCmd.Stderr = os.Stderr
	if err := ccCmd.Run(); err != nil {
		return "", &exitError{code: exitStatusOf(err), err: fmt.Errorf("%s failed: %w", cfg.CC, err)}
	}
	return output, nil
}

func formatDiag(err error) error {
	if d, ok := err.(*diag.Error); ok {
		return fmt.Errorf("%s", d.Format(!color.NoColor))
	}
	return err
}

// exitError carries the exact exit status a child process reported, so
// main can propagate it instead of collapsing every failure to exit 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitStatusOf extracts a child process's real exit status via
// golang.org/x/sys/unix, falling back to 1 when err didn't come from a
// signaled/exited child (e.g. the binary was never found).
func exitStatusOf(err error) int {
	var exitErr *exec.ExitError
	if !asExitError(err, &exitErr) {
		return 1
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		status := unix.WaitStatus(ws)
		if status.Exited() {
			return status.ExitStatus()
		}
		if status.Signaled() {
			return 128 + int(status.Signal())
		}
	}
	return 1
}

func asExitError(err error, target **exec.ExitError) bool {
	for err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			*target = ee
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func exitCodeFor(err error) int {
	var ee *exitError
	if e, ok := err.(*exitError); ok {
		ee = e
		return ee.code
	}
	return 1
}
