// Package capture turns terminal input into cybus events.
//
// Translator converts tcell events into event values. It is stateful:
// tcell reports the current button mask with every mouse event, so
// presses and releases are derived by comparing each mask with the last.
//
// Source runs the poll loop on a tcell.Screen and publishes each
// translated event:
//
//	src := capture.NewSource(screen, cfg.Mouse, logger)
//	err := src.Run(ctx, bus)
//
// Ctrl-C is published as a WindowClose event. If no listener marks it
// handled, Run returns ErrClosed.
package capture
