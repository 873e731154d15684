// Package errors provides structured error handling for the fiber reconciler.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHook indicates a hook call count or order mismatch between renders.
	KindHook
	// KindMissingHost indicates a fiber with no ancestor owning a host node.
	KindMissingHost
	// KindHost indicates a failure reported by the host renderer.
	KindHost
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBuild indicates a component render failure.
	KindBuild
	// KindScheduler indicates a misuse of the work loop or its scheduling primitive.
	KindScheduler
)

func (k ErrorKind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindMissingHost:
		return "missing-host"
	case KindHost:
		return "host"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	case KindScheduler:
		return "scheduler"
	default:
		return "unknown"
	}
}

// FiberError represents a structured error raised while processing or
// committing a fiber.
type FiberError struct {
	// Op is the operation that failed (e.g., "core.commitWork").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Fiber describes the fiber being processed, if any.
	Fiber string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FiberError) Error() string {
	if e.Fiber != "" {
		return fmt.Sprintf("%s [%s] fiber=%s: %v", e.Op, e.Kind, e.Fiber, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FiberError) Unwrap() error {
	return e.Err
}

// HookError reports that a component called its hooks in a different
// number or order than on its previous render, or called a hook outside
// of a render.
type HookError struct {
	// Component is the name of the offending component.
	Component string
	// Previous is the hook count recorded on the previous render.
	Previous int
	// Current is the hook count observed on this render.
	Current int
	// Reason overrides the default message when set.
	Reason string
}

func (e *HookError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("hook misuse in %s: %s", e.Component, e.Reason)
	}
	return fmt.Sprintf("hook count changed in %s: rendered %d hooks, previously %d", e.Component, e.Current, e.Previous)
}

// HostError wraps a failure returned by a host renderer primitive.
type HostError struct {
	// Op is the renderer primitive that failed (e.g., "CreateHostNode").
	Op string
	// Tag is the host tag involved, if any.
	Tag string
	// Err is the error returned by the renderer.
	Err error
}

func (e *HostError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("host %s(%s): %v", e.Op, e.Tag, e.Err)
	}
	return fmt.Sprintf("host %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "platform.Loop.Run").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BuildError represents a failure while evaluating a component.
type BuildError struct {
	// Component is the name of the component that failed.
	Component string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s render: %v", e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s render: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error in %s render", e.Component)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the reconciler.
type ErrorHandler interface {
	// HandleError is called when a render or commit pass fails.
	HandleError(err *FiberError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a component render fails.
	HandleBuildError(err *BuildError)
}
