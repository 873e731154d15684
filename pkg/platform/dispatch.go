package platform

import "sync/atomic"

var dispatcher atomic.Pointer[func(func())]

// RegisterDispatch sets the function that hops onto the goroutine owning
// the reconciler, usually (*Loop).Dispatch. Passing nil unregisters.
func RegisterDispatch(fn func(callback func())) {
	if fn == nil {
		dispatcher.Store(nil)
		return
	}
	dispatcher.Store(&fn)
}

// Dispatch schedules callback on the reconciler goroutine. State setters
// returned by core.UseState are not goroutine-safe, so background work
// delivers its results through Dispatch.
//
// It reports false if no dispatcher is registered or callback is nil.
func Dispatch(callback func()) bool {
	fn := dispatcher.Load()
	if fn == nil || callback == nil {
		return false
	}
	(*fn)(callback)
	return true
}
