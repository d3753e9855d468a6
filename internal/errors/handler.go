// Package errors routes user-facing messages to the CLI or the TUI status bar.
package errors

import (
	stderrors "errors"
	"sync"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
)

// ErrorHandler is the interface for error handling.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console writer used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// terminal prints through the colors package: errors and warnings on
// stderr, the rest on stdout.
type terminal struct{}

func (terminal) Error(msgs ...string)   { colors.Error(msgs...) }
func (terminal) Warning(msgs ...string) { colors.Warning(msgs...) }
func (terminal) Info(msgs ...string)    { colors.Info(msgs...) }
func (terminal) Success(msgs ...string) { colors.Success(msgs...) }

// CLIHandler handles errors by printing to stdout/stderr using the colors package.
type CLIHandler struct {
	colors     ColorOutput
	mu         sync.Mutex
	inHandling bool
}

// NewCLIHandler creates a handler writing through colors.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.inHandling {
		h.mu.Unlock()
		h.colors.Error(msg)
		return
	}
	h.inHandling = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.inHandling = false
		h.mu.Unlock()
	}()

	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) { h.colors.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.colors.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.colors.Success(msg) }

// NewDefaultCLIHandler returns the handler used by commands.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(terminal{})
}

// Report sends err to h with a severity picked from its kind.
// Fetch failures degrade to an empty list, so they are warnings; anything
// else is an error. A nil err is ignored.
func Report(h ErrorHandler, err error) {
	if err == nil || h == nil {
		return
	}
	if Degraded(err) {
		h.Warning(err.Error())
		return
	}
	h.Error(err.Error())
}

// Degraded reports whether err leaves the pipeline usable with an empty list.
func Degraded(err error) bool {
	return stderrors.Is(err, domain.ErrFetchFailed)
}
