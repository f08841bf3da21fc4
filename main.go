// ./main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/domlens/domlens-cli/cmd"
	"github.com/domlens/domlens-cli/internal/observability"
)

const panicLogFile = "panic.log"

// main is the entry point for the domlens CLI application.
func main() {
	defer handlePanic()

	// Interruption cancels the context so watch mode and in-flight builds
	// shut down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}

// handlePanic captures an unrecovered panic, flushes the logs, and records
// the stack trace to a dedicated file before exiting non-zero.
func handlePanic() {
	if r := recover(); r != nil {
		observability.Sync()

		panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
		if err := os.WriteFile(panicLogFile, []byte(panicMessage), 0o644); err != nil {
			// If logging fails, print to stderr as a fallback.
			fmt.Fprintf(os.Stderr, "CRITICAL: Failed to write panic log: %v\n", err)
			fmt.Fprintf(os.Stderr, "Panic details:\n%s\n", panicMessage)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "CRASH DETECTED. Details logged to %s\n", panicLogFile)
		os.Exit(1)
	}
}
