// Package event defines the input event model and the bus that delivers it.
//
// # Events
//
// Every event kind implements the sealed Event interface. The set is closed:
//
//	MouseMovedEvent     x, y            Mouse
//	MouseScrolledEvent  xOffset, yOffset Mouse
//	MousePressedEvent   button code     Mouse
//	MouseReleasedEvent  button code     Mouse
//	KeyPressedEvent     key code        Input|Keyboard
//	KeyReleasedEvent    key code        Input|Keyboard
//	WindowResizeEvent   width, height   Application
//	WindowCloseEvent                    Application
//
// Event values are immutable. String returns a diagnostic form such as
//
//	MouseMovedEvent x: 2.2, y: 3.3
//
// which is meant for logs only; see the recorder package for a persistent
// encoding.
//
// # Envelopes
//
// The handled flag is not part of an event. It lives on the Envelope that
// carries the event through one dispatch, together with an ID, timestamp
// and source. Dispatch offers typed matching against an envelope:
//
//	event.Dispatch(env, func(e event.MouseScrolledEvent) bool {
//	    zoom(e.YOffset())
//	    return true // consumed
//	})
//
// # Bus
//
// Bus delivers envelopes synchronously. Subscriptions filter by category
// and type and run in priority order:
//
//	bus := event.NewBus(event.WithLogger(logger))
//	bus.SubscribeFunc(event.ByCategory(event.CategoryMouse), onMouse,
//	    event.WithPriority(event.PriorityHigh))
//	env, err := bus.Publish(ctx, event.NewMousePressedEvent(0))
//
// Once a handler sets env.Handled, later handlers are skipped unless they
// subscribed with ReceiveHandled. Handler errors and panics are isolated,
// and they are returned as *HandlerError and *PanicError joined together.
package event
