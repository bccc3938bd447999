// Package events implements the synchronous in-process event bus the host
// exposes to modules.
//
// Listeners are registered with On and run in registration order on the
// goroutine that calls Emit. A listener vetoes the default action by returning
// PreventDefault, which also stops dispatch to the listeners after it; Emit
// reports the veto to the caller, which then skips its normal flow.
//
// # Usage
//
//	bus := events.NewBus(events.WithLogger(log))
//
//	off := bus.On("attemptingLogin", func(ctx context.Context, payload any) events.Result {
//		if !allowed(payload) {
//			return events.PreventDefault
//		}
//		return events.Continue
//	})
//	defer off()
//
//	if bus.Emit(ctx, "attemptingLogin", attempt) {
//		// login aborted by a listener
//	}
//
// A listener that panics is treated as a veto so that a broken gate can never
// let an attempt through.
package events
