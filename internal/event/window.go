package event

import "strconv"

// WindowResizeEvent reports new window dimensions.
type WindowResizeEvent struct {
	width  uint32
	height uint32
}

// NewWindowResizeEvent creates a window resize event.
func NewWindowResizeEvent(width, height uint32) WindowResizeEvent {
	return WindowResizeEvent{width: width, height: height}
}

// Width returns the new width.
func (e WindowResizeEvent) Width() uint32 { return e.width }

// Height returns the new height.
func (e WindowResizeEvent) Height() uint32 { return e.height }

// Type implements Event.
func (WindowResizeEvent) Type() Type { return TypeWindowResize }

// Category implements Event.
func (WindowResizeEvent) Category() Category { return CategoryApplication }

// InCategory implements Event.
func (e WindowResizeEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e WindowResizeEvent) String() string {
	return "WindowResizeEvent width: " + strconv.FormatUint(uint64(e.width), 10) +
		", height: " + strconv.FormatUint(uint64(e.height), 10)
}

func (WindowResizeEvent) sealed() {}

// WindowCloseEvent reports a request to close the window.
type WindowCloseEvent struct{}

// NewWindowCloseEvent creates a window close event.
func NewWindowCloseEvent() WindowCloseEvent {
	return WindowCloseEvent{}
}

// Type implements Event.
func (WindowCloseEvent) Type() Type { return TypeWindowClose }

// Category implements Event.
func (WindowCloseEvent) Category() Category { return CategoryApplication }

// InCategory implements Event.
func (e WindowCloseEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (WindowCloseEvent) String() string { return "WindowCloseEvent" }

func (WindowCloseEvent) sealed() {}
