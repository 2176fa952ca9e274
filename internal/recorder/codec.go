package recorder

import (
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/cybus/internal/event"
)

// Field names used in transcript lines.
const (
	fieldType    = "type"
	fieldID      = "id"
	fieldSource  = "source"
	fieldTime    = "ts"
	fieldHandled = "handled"
)

type field struct {
	path  string
	value any
}

// Encode renders env as a single transcript line without a trailing newline.
func Encode(env *event.Envelope) ([]byte, error) {
	if env == nil || env.Event == nil {
		return nil, event.ErrInvalidEvent
	}

	fields := []field{
		{fieldType, env.Event.Type().String()},
		{fieldID, env.ID},
		{fieldSource, env.Source},
		{fieldTime, env.Timestamp.UTC().Format(time.RFC3339Nano)},
		{fieldHandled, env.Handled},
	}
	fields = append(fields, payload(env.Event)...)

	line := []byte(`{}`)
	var err error
	for _, f := range fields {
		if line, err = sjson.SetBytes(line, f.path, f.value); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}
	return line, nil
}

func payload(ev event.Event) []field {
	switch e := ev.(type) {
	case event.MouseMovedEvent:
		return []field{{"x", event.FormatFloat(e.X())}, {"y", event.FormatFloat(e.Y())}}
	case event.MouseScrolledEvent:
		return []field{{"x_offset", event.FormatFloat(e.XOffset())}, {"y_offset", event.FormatFloat(e.YOffset())}}
	case event.MousePressedEvent:
		return []field{{"code", e.Code()}}
	case event.MouseReleasedEvent:
		return []field{{"code", e.Code()}}
	case event.KeyPressedEvent:
		return []field{{"code", e.Code()}, {"repeat", e.Repeat()}}
	case event.KeyReleasedEvent:
		return []field{{"code", e.Code()}}
	case event.WindowResizeEvent:
		return []field{{"width", e.Width()}, {"height", e.Height()}}
	default:
		return nil
	}
}

// Decode parses one transcript line back into an event. Envelope metadata
// (id, source, ts, handled) is ignored.
func Decode(line []byte) (event.Event, error) {
	if !gjson.ValidBytes(line) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrBadRecord)
	}
	root := gjson.ParseBytes(line)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrBadRecord)
	}

	name := root.Get(fieldType)
	if name.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing type", ErrBadRecord)
	}
	typ, ok := event.ParseType(name.Str)
	if !ok || typ == event.TypeNone {
		return nil, fmt.Errorf("%w: unknown type %q", ErrBadRecord, name.Str)
	}

	d := decoder{root: root}
	var ev event.Event
	switch typ {
	case event.TypeMouseMoved:
		ev = event.NewMouseMovedEvent(d.float("x"), d.float("y"))
	case event.TypeMouseScrolled:
		ev = event.NewMouseScrolledEvent(d.float("x_offset"), d.float("y_offset"))
	case event.TypeMouseButtonPressed:
		ev = event.NewMousePressedEvent(uint8(d.integer("code", 0, math.MaxUint8)))
	case event.TypeMouseButtonReleased:
		ev = event.NewMouseReleasedEvent(uint8(d.integer("code", 0, math.MaxUint8)))
	case event.TypeKeyPressed:
		ev = event.NewKeyPressedEvent(int32(d.integer("code", math.MinInt32, math.MaxInt32)), d.boolean("repeat"))
	case event.TypeKeyReleased:
		ev = event.NewKeyReleasedEvent(int32(d.integer("code", math.MinInt32, math.MaxInt32)))
	case event.TypeWindowResize:
		ev = event.NewWindowResizeEvent(uint32(d.integer("width", 0, math.MaxUint32)), uint32(d.integer("height", 0, math.MaxUint32)))
	case event.TypeWindowClose:
		ev = event.NewWindowCloseEvent()
	}

	if d.err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRecord, typ, d.err)
	}
	return ev, nil
}

// decoder reads payload fields, keeping the first error.
type decoder struct {
	root gjson.Result
	err  error
}

func (d *decoder) get(name string) (gjson.Result, bool) {
	if d.err != nil {
		return gjson.Result{}, false
	}
	r := d.root.Get(name)
	if !r.Exists() {
		d.err = fmt.Errorf("missing %s", name)
		return r, false
	}
	return r, true
}

// float accepts the string form written by Encode and plain JSON numbers.
func (d *decoder) float(name string) float32 {
	r, ok := d.get(name)
	if !ok {
		return 0
	}
	switch r.Type {
	case gjson.String:
		v, err := event.ParseFloat(r.Str)
		if err != nil {
			d.err = fmt.Errorf("%s: %v", name, err)
		}
		return v
	case gjson.Number:
		return float32(r.Num)
	default:
		d.err = fmt.Errorf("%s: want number, got %s", name, r.Type)
		return 0
	}
}

func (d *decoder) integer(name string, lo, hi int64) int64 {
	r, ok := d.get(name)
	if !ok {
		return 0
	}
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		d.err = fmt.Errorf("%s: want integer, got %s", name, r.Raw)
		return 0
	}
	v := r.Int()
	if v < lo || v > hi || float64(v) != r.Num {
		d.err = fmt.Errorf("%s: %s out of range", name, r.Raw)
		return 0
	}
	return v
}

func (d *decoder) boolean(name string) bool {
	r, ok := d.get(name)
	if !ok {
		return false
	}
	if !r.IsBool() {
		d.err = fmt.Errorf("%s: want boolean, got %s", name, r.Raw)
		return false
	}
	return r.Bool()
}
