package main

import (
	"github.com/xyproto/env/v2"
)

// config is the CLI's process-wide configuration, read once from the
// environment at startup via xyproto/env/v2 instead of only flag.Parse,
// so the same knobs work in CI/containers without a wrapper script.
type config struct {
	CC      string // host C compiler to invoke
	CFLAGS  string // extra flags appended after the baseline optimization set
	Verbose bool
	EmitOMP bool
}

func loadConfig() config {
	return config{
		CC:      env.Str("ONEIM_CC", "cc"),
		CFLAGS:  env.Str("ONEIM_CFLAGS", ""),
		Verbose: env.Bool("ONEIM_VERBOSE"),
		EmitOMP: env.Bool("ONEIM_OMP"),
	}
}
