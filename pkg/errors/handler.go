package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// handlerBox lets handlers of different concrete types share one
// atomic.Pointer.
type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

// SetHandler installs the process-wide error handler. Passing nil restores
// the default LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		current.Store(nil)
		return
	}
	current.Store(&handlerBox{h: h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	if b := current.Load(); b != nil {
		return b.h
	}
	return defaultHandler
}

var defaultHandler ErrorHandler = &LogHandler{}

// Report sends a failed pass to the installed handler, stamping it with
// the current time if it has none.
func Report(err *FiberError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportBuildError sends a failed component render to the installed
// handler.
func ReportBuildError(err *BuildError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleBuildError(err)
}

// ReportPanic sends a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress. It must be deferred directly:
//
//	defer errors.Recover("platform.Loop.task")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanic(op, r))
	}
}

// Guard runs fn and converts a panic into a reported PanicError, which it
// also returns. It returns nil when fn completes normally.
func Guard(op string, fn func()) (p *PanicError) {
	defer func() {
		if r := recover(); r != nil {
			p = newPanic(op, r)
			ReportPanic(p)
		}
	}()
	fn()
	return nil
}

func newPanic(op string, r any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the caller's stack, one function per entry with its
// file and line indented below. Frames inside the runtime are omitted, so
// a stack captured while recovering starts at the panicking code.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") && !isOwnFrame(frame.Function) {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteString("\n")
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// isOwnFrame reports whether fn is part of the recovery helpers above.
func isOwnFrame(fn string) bool {
	const pkg = "github.com/go-drift/fiber/pkg/errors."
	if !strings.HasPrefix(fn, pkg) {
		return false
	}
	switch strings.TrimPrefix(fn, pkg) {
	case "CaptureStack", "newPanic", "Recover", "Guard.func1":
		return true
	}
	return false
}
