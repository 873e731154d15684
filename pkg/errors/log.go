package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("fiber.errors")

// LogHandler is the default ErrorHandler. It writes one line per error to
// the "fiber.errors" logger, or to Out when set.
type LogHandler struct {
	// Verbose appends stack traces.
	Verbose bool
	// Out receives plain text instead of the logger.
	Out io.Writer
}

func (h *LogHandler) emit(msg, stack string) {
	if h.Verbose && stack != "" {
		msg += "\nStack trace:\n" + strings.TrimRight(stack, "\n")
	}
	if h.Out != nil {
		fmt.Fprintln(h.Out, msg)
		return
	}
	log.Error(msg)
}

// HandleError logs a failed pass.
func (h *LogHandler) HandleError(err *FiberError) {
	if err == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[fiber error] %s", err.Op)
	if h.Verbose {
		fmt.Fprintf(&sb, " [%s]", err.Kind)
		if err.Fiber != "" {
			fmt.Fprintf(&sb, " fiber=%s", err.Fiber)
		}
	}
	fmt.Fprintf(&sb, ": %v", err.Err)
	h.emit(sb.String(), err.StackTrace)
}

// HandlePanic logs a recovered panic.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	msg := fmt.Sprintf("[fiber panic] %v", err.Value)
	if err.Op != "" {
		msg = fmt.Sprintf("[fiber panic] %s: %v", err.Op, err.Value)
	}
	h.emit(msg, err.StackTrace)
}

// HandleBuildError logs a failed component render.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	h.emit("[fiber build error] "+err.Error(), err.StackTrace)
}
