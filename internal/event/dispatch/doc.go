// Package dispatch runs event handlers synchronously with panic recovery.
//
// A SyncDispatcher executes one handler per call in the caller's goroutine:
//
//	d := dispatch.NewSyncDispatcher[*event.Envelope]()
//	res := d.Dispatch(ctx, env, handler)
//	if res.IsPanic() {
//	    // handler crashed; res.PanicStack has the trace
//	}
//
// The context is checked before a handler starts. A cancelled context skips
// the handler and reports Skipped in the Result.
package dispatch
