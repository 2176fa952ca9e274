package event

import "strconv"

// MouseMovedEvent reports the absolute cursor position at capture time.
type MouseMovedEvent struct {
	x float32
	y float32
}

// NewMouseMovedEvent creates a mouse moved event.
func NewMouseMovedEvent(x, y float32) MouseMovedEvent {
	return MouseMovedEvent{x: x, y: y}
}

// X returns the horizontal cursor coordinate.
func (e MouseMovedEvent) X() float32 { return e.x }

// Y returns the vertical cursor coordinate.
func (e MouseMovedEvent) Y() float32 { return e.y }

// Type implements Event.
func (MouseMovedEvent) Type() Type { return TypeMouseMoved }

// Category implements Event.
func (MouseMovedEvent) Category() Category { return CategoryMouse }

// InCategory implements Event.
func (e MouseMovedEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e MouseMovedEvent) String() string {
	return "MouseMovedEvent x: " + FormatFloat(e.x) + ", y: " + FormatFloat(e.y)
}

func (MouseMovedEvent) sealed() {}

// MouseScrolledEvent reports the scroll deltas of a single wheel event.
type MouseScrolledEvent struct {
	xOffset float32
	yOffset float32
}

// NewMouseScrolledEvent creates a mouse scrolled event.
func NewMouseScrolledEvent(xOffset, yOffset float32) MouseScrolledEvent {
	return MouseScrolledEvent{xOffset: xOffset, yOffset: yOffset}
}

// XOffset returns the horizontal scroll delta.
func (e MouseScrolledEvent) XOffset() float32 { return e.xOffset }

// YOffset returns the vertical scroll delta.
func (e MouseScrolledEvent) YOffset() float32 { return e.yOffset }

// Type implements Event.
func (MouseScrolledEvent) Type() Type { return TypeMouseScrolled }

// Category implements Event.
func (MouseScrolledEvent) Category() Category { return CategoryMouse }

// InCategory implements Event.
func (e MouseScrolledEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e MouseScrolledEvent) String() string {
	return "MouseScrolledEvent x_offset: " + FormatFloat(e.xOffset) + ", y_offset: " + FormatFloat(e.yOffset)
}

func (MouseScrolledEvent) sealed() {}

// MousePressedEvent reports that a mouse button went down.
type MousePressedEvent struct {
	code uint8
}

// NewMousePressedEvent creates a mouse pressed event for button code.
func NewMousePressedEvent(code uint8) MousePressedEvent {
	return MousePressedEvent{code: code}
}

// Code returns the button that was pressed.
func (e MousePressedEvent) Code() uint8 { return e.code }

// Type implements Event.
func (MousePressedEvent) Type() Type { return TypeMouseButtonPressed }

// Category implements Event.
func (MousePressedEvent) Category() Category { return CategoryMouse }

// InCategory implements Event.
func (e MousePressedEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e MousePressedEvent) String() string {
	return "MousePressedEvent Code: " + strconv.FormatUint(uint64(e.code), 10)
}

func (MousePressedEvent) sealed() {}

// MouseReleasedEvent reports that a mouse button went up.
type MouseReleasedEvent struct {
	code uint8
}

// NewMouseReleasedEvent creates a mouse released event for button code.
func NewMouseReleasedEvent(code uint8) MouseReleasedEvent {
	return MouseReleasedEvent{code: code}
}

// Code returns the button that was released.
func (e MouseReleasedEvent) Code() uint8 { return e.code }

// Type implements Event.
func (MouseReleasedEvent) Type() Type { return TypeMouseButtonReleased }

// Category implements Event.
func (MouseReleasedEvent) Category() Category { return CategoryMouse }

// InCategory implements Event.
func (e MouseReleasedEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e MouseReleasedEvent) String() string {
	return "MouseReleasedEvent Code: " + strconv.FormatUint(uint64(e.code), 10)
}

func (MouseReleasedEvent) sealed() {}
