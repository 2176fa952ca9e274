package capture

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/cybus/internal/config"
	"github.com/dshills/cybus/internal/event"
)

// buttons lists tcell's button bits. Index i maps to mouse code i.
var buttons = [...]tcell.ButtonMask{
	tcell.Button1, tcell.Button2, tcell.Button3, tcell.Button4,
	tcell.Button5, tcell.Button6, tcell.Button7, tcell.Button8,
}

const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3 | tcell.Button4 |
	tcell.Button5 | tcell.Button6 | tcell.Button7 | tcell.Button8

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// RepeatWindow is the longest gap between two presses of the same key for
// the second to count as auto-repeat. Terminal auto-repeat runs at roughly
// 30 presses a second; deliberate double presses are slower.
const RepeatWindow = 60 * time.Millisecond

// Translator converts tcell events into cybus events. It is not safe for
// concurrent use.
type Translator struct {
	reportMotion bool
	scrollScale  float32

	havePos bool
	x, y    int
	pressed tcell.ButtonMask

	haveKey   bool
	lastKey   int32
	lastKeyAt time.Time
}

// NewTranslator creates a translator for the given mouse settings.
func NewTranslator(cfg config.MouseConfig) *Translator {
	scale := float32(cfg.ScrollScale)
	if scale == 0 {
		scale = 1
	}
	return &Translator{
		reportMotion: cfg.ReportMotion,
		scrollScale:  scale,
	}
}

// Reset forgets the last pointer position, button mask and key.
func (t *Translator) Reset() {
	t.havePos = false
	t.x, t.y = 0, 0
	t.pressed = 0
	t.haveKey = false
	t.lastKey = 0
	t.lastKeyAt = time.Time{}
}

// Translate returns the events ev produces, in order. Events tcell has no
// counterpart for produce nothing.
func (t *Translator) Translate(ev tcell.Event) []event.Event {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return t.mouse(e)
	case *tcell.EventKey:
		return []event.Event{t.key(e)}
	case *tcell.EventResize:
		w, h := e.Size()
		return []event.Event{event.NewWindowResizeEvent(clampDim(w), clampDim(h))}
	default:
		return nil
	}
}

func (t *Translator) mouse(e *tcell.EventMouse) []event.Event {
	var out []event.Event

	x, y := e.Position()
	if !t.havePos || x != t.x || y != t.y {
		if t.reportMotion {
			out = append(out, event.NewMouseMovedEvent(float32(x), float32(y)))
		}
		t.havePos = true
		t.x, t.y = x, y
	}

	mask := e.Buttons()
	now := mask & buttonMask
	for code, b := range buttons {
		switch {
		case now&b != 0 && t.pressed&b == 0:
			out = append(out, event.NewMousePressedEvent(uint8(code)))
		case now&b == 0 && t.pressed&b != 0:
			out = append(out, event.NewMouseReleasedEvent(uint8(code)))
		}
	}
	t.pressed = now

	if mask&wheelMask != 0 {
		var dx, dy float32
		if mask&tcell.WheelUp != 0 {
			dy++
		}
		if mask&tcell.WheelDown != 0 {
			dy--
		}
		if mask&tcell.WheelLeft != 0 {
			dx--
		}
		if mask&tcell.WheelRight != 0 {
			dx++
		}
		out = append(out, event.NewMouseScrolledEvent(dx*t.scrollScale, dy*t.scrollScale))
	}

	return out
}

func (t *Translator) key(e *tcell.EventKey) event.Event {
	var code int32
	if e.Key() == tcell.KeyRune {
		code = int32(e.Rune())
	} else {
		code = int32(e.Key())
	}

	at := e.When()
	gap := at.Sub(t.lastKeyAt)
	repeat := t.haveKey && code == t.lastKey && gap >= 0 && gap <= RepeatWindow
	t.haveKey = true
	t.lastKey = code
	t.lastKeyAt = at

	return event.NewKeyPressedEvent(code, repeat)
}

func clampDim(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
