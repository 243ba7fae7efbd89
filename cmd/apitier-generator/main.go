// Package main is the entry point for apitier-generator.
//
// apitier-generator turns a registry of API symbols and their stability
// tiers into C headers that hide draft, internal, deprecated or obsolete API
// behind preprocessor switches:
//   - gen writes the headers
//   - check fails when the headers on disk are stale
//   - scan builds a registry from header doc-comment annotations
//   - list and explain inspect the registry and the computed redirects
//   - watch regenerates on every registry change
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	err := root.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
