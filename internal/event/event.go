package event

import (
	"strconv"
	"strings"
)

// Type identifies the concrete kind of an event.
type Type uint8

// Event types.
const (
	TypeNone Type = iota
	TypeWindowClose
	TypeWindowResize
	TypeKeyPressed
	TypeKeyReleased
	TypeMouseButtonPressed
	TypeMouseButtonReleased
	TypeMouseMoved
	TypeMouseScrolled
)

var typeNames = [...]string{
	TypeNone:                "None",
	TypeWindowClose:         "WindowClose",
	TypeWindowResize:        "WindowResize",
	TypeKeyPressed:          "KeyPressed",
	TypeKeyReleased:         "KeyReleased",
	TypeMouseButtonPressed:  "MouseButtonPressed",
	TypeMouseButtonReleased: "MouseButtonReleased",
	TypeMouseMoved:          "MouseMoved",
	TypeMouseScrolled:       "MouseScrolled",
}

// String returns the name of the event type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType returns the Type with the given name.
func ParseType(name string) (Type, bool) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), true
		}
	}
	return TypeNone, false
}

// Category is a bitset classifying events. Listeners can filter on a
// category without matching every concrete type.
type Category uint8

// Event categories.
const (
	CategoryApplication Category = 1 << iota
	CategoryInput
	CategoryKeyboard
	CategoryMouse
	CategoryMouseButton
)

var categoryNames = []struct {
	bit  Category
	name string
}{
	{CategoryApplication, "Application"},
	{CategoryInput, "Input"},
	{CategoryKeyboard, "Keyboard"},
	{CategoryMouse, "Mouse"},
	{CategoryMouseButton, "MouseButton"},
}

// String returns the category names joined with "|".
func (c Category) String() string {
	if c == 0 {
		return "None"
	}
	var parts []string
	for _, cn := range categoryNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}
	if rest := c &^ (CategoryApplication | CategoryInput | CategoryKeyboard | CategoryMouse | CategoryMouseButton); rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

// Has returns true if c shares any bit with other.
func (c Category) Has(other Category) bool {
	return c&other != 0
}

// Event is implemented by every event kind in this package. The set of
// implementations is closed; consumers type-switch on the concrete types.
type Event interface {
	// Type returns the fixed tag of the concrete event kind.
	Type() Type

	// Category returns the classification of the event.
	Category() Category

	// String returns a diagnostic description for logs.
	String() string

	// InCategory returns true if the event belongs to any of the given categories.
	InCategory(c Category) bool

	sealed()
}

// FormatFloat renders a float32 in its shortest round-tripping decimal form,
// without exponent. NaN and infinities use the strconv spellings.
func FormatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// ParseFloat parses a value produced by FormatFloat.
func ParseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}
