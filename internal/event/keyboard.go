package event

import "strconv"

// KeyPressedEvent reports a key press. Code is a rune for printable keys and
// a backend key value otherwise.
type KeyPressedEvent struct {
	code   int32
	repeat bool
}

// NewKeyPressedEvent creates a key pressed event.
func NewKeyPressedEvent(code int32, repeat bool) KeyPressedEvent {
	return KeyPressedEvent{code: code, repeat: repeat}
}

// Code returns the key code.
func (e KeyPressedEvent) Code() int32 { return e.code }

// Repeat returns true if the key is auto-repeating.
func (e KeyPressedEvent) Repeat() bool { return e.repeat }

// Type implements Event.
func (KeyPressedEvent) Type() Type { return TypeKeyPressed }

// Category implements Event.
func (KeyPressedEvent) Category() Category { return CategoryInput | CategoryKeyboard }

// InCategory implements Event.
func (e KeyPressedEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e KeyPressedEvent) String() string {
	return "KeyPressedEvent Code: " + strconv.FormatInt(int64(e.code), 10) +
		", Repeat: " + strconv.FormatBool(e.repeat)
}

func (KeyPressedEvent) sealed() {}

// KeyReleasedEvent reports a key release.
type KeyReleasedEvent struct {
	code int32
}

// NewKeyReleasedEvent creates a key released event.
func NewKeyReleasedEvent(code int32) KeyReleasedEvent {
	return KeyReleasedEvent{code: code}
}

// Code returns the key code.
func (e KeyReleasedEvent) Code() int32 { return e.code }

// Type implements Event.
func (KeyReleasedEvent) Type() Type { return TypeKeyReleased }

// Category implements Event.
func (KeyReleasedEvent) Category() Category { return CategoryInput | CategoryKeyboard }

// InCategory implements Event.
func (e KeyReleasedEvent) InCategory(c Category) bool { return e.Category().Has(c) }

func (e KeyReleasedEvent) String() string {
	return "KeyReleasedEvent Code: " + strconv.FormatInt(int64(e.code), 10)
}

func (KeyReleasedEvent) sealed() {}
