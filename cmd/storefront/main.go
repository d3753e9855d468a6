package main

import (
	"os"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/hooks"
	"github.com/cristianoliveira/storefront/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

// run executes the CLI and returns the process exit code. Structured
// lifecycle events are skipped for the TUI, where they would corrupt the
// screen.
func run(args []string, execute func() error) int {
	if len(args) > 0 && args[0] == "tui" {
		colors.DisableStructuredLogging()
	}
	defer func() {
		hooks.Shutdown()
		_ = logging.ShutdownGlobal()
	}()

	colors.StructuredInfo(colors.Event{Component: "startup", Action: "main", Status: "started"})
	if err := execute(); err != nil {
		colors.StructuredError(colors.Event{Component: "startup", Action: "main", Status: "failed", Err: err})
		return 1
	}
	colors.StructuredInfo(colors.Event{Component: "startup", Action: "main", Status: "completed"})
	return 0
}
