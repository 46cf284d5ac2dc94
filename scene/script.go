package scene

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// actionDispatchScript is appended to every level script. A level script
// declares its actions in a map:
//
//	actions := {
//		stockGoogle: func(engine) { engine.stock("3-stock-google", "-33%", 800) }
//	}
const actionDispatchScript = `
if __action != "" {
	__fn := actions[__action]
	if is_callable(__fn) {
		__fn(__engine)
	}
}
`

// Script is a compiled level script whose actions drive a session.
type Script struct {
	module   string
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	actions  map[string]bool
}

// CompileScript compiles src, runs its top level once and records the
// actions it declares.
func CompileScript(module string, src []byte, s *Session) (*Script, error) {
	full := string(src) + "\n" + actionDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__action", "")
	_ = script.Add("__engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap("fmt", "math", "text"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scene: compile %s script: %w", module, err)
	}

	sc := &Script{
		module:   module,
		compiled: compiled,
		engine:   buildScriptEngine(s),
		actions:  make(map[string]bool),
	}
	if err := sc.run(""); err != nil {
		return nil, fmt.Errorf("scene: run %s script: %w", module, err)
	}
	if compiled.IsDefined("actions") {
		for name := range compiled.Get("actions").Map() {
			sc.actions[name] = true
		}
	}
	return sc, nil
}

// Has reports whether the script declares action.
func (sc *Script) Has(action string) bool {
	return sc != nil && sc.actions[action]
}

// Actions returns the declared actions, sorted.
func (sc *Script) Actions() []string {
	out := make([]string, 0, len(sc.actions))
	for name := range sc.actions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run calls a declared action.
func (sc *Script) Run(action string) error {
	if !sc.Has(action) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAction, sc.module, action)
	}
	if err := sc.run(action); err != nil {
		return fmt.Errorf("scene: %s.%s: %w", sc.module, action, err)
	}
	return nil
}

func (sc *Script) run(action string) error {
	if err := sc.compiled.Set("__action", action); err != nil {
		return err
	}
	if err := sc.compiled.Set("__engine", sc.engine); err != nil {
		return err
	}
	return sc.compiled.Run()
}

// buildScriptEngine exposes the session operations scripts may call.
func buildScriptEngine(s *Session) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["stock"] = &tengo.UserFunction{Name: "stock", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		kind := ParseObjectKind(name)
		if !kind.IsStock() {
			return nil, fmt.Errorf("%w: unknown stock %q", ErrInvalidArgument, name)
		}
		offset, ok := tengo.ToFloat64(args[2])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "offset", Expected: "int(compatible)", Found: args[2].TypeName()}
		}
		if _, err := s.SpawnStock(kind, objectAsString(args[1]), offset); err != nil {
			return nil, err
		}
		return tengo.TrueValue, nil
	}}

	values["title"] = &tengo.UserFunction{Name: "title", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		var hold time.Duration
		if len(args) > 1 {
			ms, ok := tengo.ToInt64(args[1])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "hold", Expected: "int", Found: args[1].TypeName()}
			}
			hold = time.Duration(ms) * time.Millisecond
		}
		s.Title(objectAsString(args[0]), hold)
		return tengo.UndefinedValue, nil
	}}

	values["checkpoint"] = &tengo.UserFunction{Name: "checkpoint", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "id", Expected: "int", Found: args[0].TypeName()}
		}
		s.SetCheckpoint(id)
		return tengo.UndefinedValue, nil
	}}

	values["goal"] = &tengo.UserFunction{Name: "goal", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		s.Goals.ReachGoal(objectAsString(args[0]))
		return tengo.UndefinedValue, nil
	}}

	values["music"] = &tengo.UserFunction{Name: "music", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		s.Audio.SetMain(objectAsString(args[0]))
		return tengo.UndefinedValue, nil
	}}

	values["sound"] = &tengo.UserFunction{Name: "sound", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		s.Audio.Play(objectAsString(args[0]))
		return tengo.UndefinedValue, nil
	}}

	values["get_player_position"] = &tengo.UserFunction{Name: "get_player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y := s.PlayerPosition()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script: %s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
