package lua

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cybus/internal/event"
)

// eventFunction is the global a listener script must define.
const eventFunction = "on_event"

// Listener is an event.Handler backed by a Lua script.
type Listener struct {
	name   string
	state  *State
	logger *slog.Logger
}

// ListenerOption configures a Listener.
type ListenerOption func(*listenerConfig)

type listenerConfig struct {
	logger    *slog.Logger
	stateOpts []StateOption
}

// WithLogger sets the logger behind the script's log function.
func WithLogger(l *slog.Logger) ListenerOption {
	return func(c *listenerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStateOptions passes options through to NewState.
func WithStateOptions(opts ...StateOption) ListenerOption {
	return func(c *listenerConfig) {
		c.stateOpts = append(c.stateOpts, opts...)
	}
}

// LoadListener loads the script at path.
func LoadListener(path string, opts ...ListenerOption) (*Listener, error) {
	return load(path, opts, func(s *State) error { return s.DoFile(path) })
}

// LoadListenerString loads a script from source. name identifies it in
// logs and errors.
func LoadListenerString(name, code string, opts ...ListenerOption) (*Listener, error) {
	return load(name, opts, func(s *State) error { return s.DoString(code) })
}

func load(name string, opts []ListenerOption, run func(*State) error) (*Listener, error) {
	cfg := listenerConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Listener{
		name:   name,
		state:  NewState(cfg.stateOpts...),
		logger: cfg.logger.With(slog.String("script", name)),
	}
	l.state.RegisterFunc("log", l.luaLog)
	l.state.RegisterFunc("print", l.luaPrint)

	if err := run(l.state); err != nil {
		l.state.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	if l.state.GetGlobal(eventFunction).Type() != lua.LTFunction {
		l.state.Close()
		return nil, fmt.Errorf("loading %s: %w", name, ErrNoEventFunction)
	}

	return l, nil
}

// Name returns the script name.
func (l *Listener) Name() string {
	return l.name
}

// Handle calls on_event with env's event. A truthy result marks env
// handled; a falsy one leaves the flag as it was.
func (l *Listener) Handle(ctx context.Context, env *event.Envelope) error {
	rets, err := l.state.call(ctx, eventFunction, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{eventTable(L, env)}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", l.name, err)
	}
	if len(rets) > 0 && lua.LVAsBool(rets[0]) {
		env.Handled = true
	}
	return nil
}

// Close releases the Lua state. It is safe to call more than once.
func (l *Listener) Close() error {
	return l.state.Close()
}

// luaLog implements log(msg) for scripts.
func (l *Listener) luaLog(L *lua.LState) int {
	l.logger.Info(L.CheckString(1))
	return 0
}

// luaPrint replaces the base print, which writes to stdout, with a log
// line. Arguments are joined with tabs as print does.
func (l *Listener) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	l.logger.Info(strings.Join(parts, "\t"), slog.String("via", "print"))
	return 0
}

// eventTable converts env into the table passed to on_event.
func eventTable(L *lua.LState, env *event.Envelope) *lua.LTable {
	t := L.NewTable()
	ev := env.Event

	t.RawSetString("type", lua.LString(ev.Type().String()))
	t.RawSetString("category", lua.LString(ev.Category().String()))
	t.RawSetString("text", lua.LString(ev.String()))
	t.RawSetString("handled", lua.LBool(env.Handled))

	switch e := ev.(type) {
	case event.MouseMovedEvent:
		t.RawSetString("x", lua.LNumber(e.X()))
		t.RawSetString("y", lua.LNumber(e.Y()))
	case event.MouseScrolledEvent:
		t.RawSetString("x_offset", lua.LNumber(e.XOffset()))
		t.RawSetString("y_offset", lua.LNumber(e.YOffset()))
	case event.MousePressedEvent:
		t.RawSetString("code", lua.LNumber(e.Code()))
	case event.MouseReleasedEvent:
		t.RawSetString("code", lua.LNumber(e.Code()))
	case event.KeyPressedEvent:
		t.RawSetString("code", lua.LNumber(e.Code()))
		t.RawSetString("repeat", lua.LBool(e.Repeat()))
	case event.KeyReleasedEvent:
		t.RawSetString("code", lua.LNumber(e.Code()))
	case event.WindowResizeEvent:
		t.RawSetString("width", lua.LNumber(e.Width()))
		t.RawSetString("height", lua.LNumber(e.Height()))
	}

	return t
}
