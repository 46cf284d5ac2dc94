package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/system"
	"github.com/milk9111/twentytwenty/levels"
)

// Action names a level action, as triggers and scripts refer to it.
type Action string

// ActionFunc runs one level action.
type ActionFunc func(s *Session) error

// Module is one level's scripting: what it places at load and the actions
// its triggers may run.
type Module interface {
	Name() string
	Preload(s *Session) error
	Actions() map[Action]ActionFunc
}

// Session is the state of one loaded level. It is created when the level
// loads and closed when it unloads; nothing outlives it.
type Session struct {
	Deps
	Level *levels.World

	modules    []Module
	byName     map[string]Module
	scripts    map[string]*Script
	checkpoint int
	stocks     []*Stock
	timers     []*system.Timer
	cancels    []func()
	closed     bool
}

// NewSession loads every module's objects and scripts into deps.World.
func NewSession(deps Deps, level *levels.World) (*Session, error) {
	switch {
	case deps.World == nil:
		return nil, fmt.Errorf("%w: nil world", ErrInvalidArgument)
	case deps.Colliders == nil:
		return nil, fmt.Errorf("%w: nil colliders", ErrInvalidArgument)
	case deps.Timers == nil:
		return nil, fmt.Errorf("%w: nil timers", ErrInvalidArgument)
	case deps.Animations == nil:
		return nil, fmt.Errorf("%w: nil animation library", ErrInvalidArgument)
	case level == nil:
		return nil, fmt.Errorf("%w: nil level", ErrInvalidArgument)
	}
	if deps.Audio == nil {
		deps.Audio = noAudio{}
	}
	if deps.Goals == nil {
		deps.Goals = noGoals{}
	}
	if deps.Checkpoints == nil {
		deps.Checkpoints = noCheckpoints{}
	}

	s := &Session{
		Deps:    deps,
		Level:   level,
		byName:  make(map[string]Module),
		scripts: make(map[string]*Script),
	}
	for _, m := range []Module{&level0{}, &level3{}} {
		s.modules = append(s.modules, m)
		s.byName[m.Name()] = m
	}

	for _, m := range s.modules {
		if err := m.Preload(s); err != nil {
			return nil, fmt.Errorf("scene: preload %s: %w", m.Name(), err)
		}
		if err := s.loadScript(m.Name()); err != nil {
			return nil, err
		}
	}
	for _, name := range level.Modules() {
		if _, ok := s.byName[name]; ok {
			continue
		}
		log.Printf("scene: layer %q has no module; placing plain images", name)
		if err := s.placeLayer(name, nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) loadScript(module string) error {
	src, err := levels.LoadScript(module)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scene: read %s script: %w", module, err)
	}
	script, err := CompileScript(module, src, s)
	if err != nil {
		return err
	}
	s.scripts[module] = script
	return nil
}

// Run performs a module action. Go actions win over script actions of the
// same name. An unknown action returns ErrUnknownAction.
func (s *Session) Run(module string, action string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if m, ok := s.byName[module]; ok {
		if fn, ok := m.Actions()[Action(action)]; ok {
			return fn(s)
		}
	}
	if script, ok := s.scripts[module]; ok && script.Has(action) {
		return script.Run(action)
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownAction, module, action)
}

// Fire runs a trigger action and logs failures; a bad trigger must not stop
// the level.
func (s *Session) Fire(module, action string) {
	if err := s.Run(module, action); err != nil {
		log.Printf("scene: %s.%s: %v", module, action, err)
	}
}

// Actions lists every action a module can run, Go and script.
func (s *Session) Actions(module string) []string {
	var out []string
	if m, ok := s.byName[module]; ok {
		for a := range m.Actions() {
			out = append(out, string(a))
		}
	}
	if script, ok := s.scripts[module]; ok {
		out = append(out, script.Actions()...)
	}
	return out
}

// Close cancels the session's timers and sequences and retires stock
// colliders. It is safe to call twice.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	for _, t := range s.timers {
		t.Remove()
	}
	for _, cancel := range s.cancels {
		cancel()
	}
	for _, st := range s.stocks {
		st.release()
	}
	s.timers, s.cancels, s.stocks = nil, nil, nil
}

// Closed reports whether Close ran.
func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) after(d time.Duration, fn func()) {
	s.timers = append(s.timers, s.Timers.After(d, fn))
}

// Checkpoint returns the last checkpoint set in this session.
func (s *Session) Checkpoint() int {
	return s.checkpoint
}

// SetCheckpoint records progress: it persists the id, reports the goal and
// tells the game loop.
func (s *Session) SetCheckpoint(id int) {
	s.checkpoint = id
	if err := s.Checkpoints.SaveCheckpoint(id); err != nil {
		log.Printf("scene: save checkpoint %d: %v", id, err)
	}
	s.Goals.ReachGoal(fmt.Sprintf("CHECKPOINT_%d", id))
	s.World.Events().Push(ecs.Event{Type: ecs.EventCheckpoint, Data: id})
}

// GameOver ends the run; the game restarts from the last checkpoint.
func (s *Session) GameOver() {
	s.World.Events().Push(ecs.Event{Type: ecs.EventGameOver, Data: s.checkpoint})
}

// Title fades a caption in, holds it for hold and fades it out.
func (s *Session) Title(text string, hold time.Duration) {
	if hold <= 0 {
		hold = common.DurationTitleHold
	}
	if _, err := system.ShowTitle(s.World, text, common.DurationTitleFade, hold); err != nil {
		log.Printf("scene: title %q: %v", text, err)
	}
}

// Player returns the player entity.
func (s *Session) Player() (ecs.Entity, bool) {
	return ecs.First(s.World, component.PlayerTagComponent.Kind())
}

// PlayerPosition returns where the player stands.
func (s *Session) PlayerPosition() (x, y float64) {
	x, y, _ = system.PlayerPosition(s.World)
	return x, y
}

// TakeControl freezes the player for a cutscene.
func (s *Session) TakeControl() {
	system.SetPlayerLocked(s.World, true)
}

// GiveControl hands the player back to the keyboard.
func (s *Session) GiveControl() {
	system.SetPlayerLocked(s.World, false)
}

// PlayerThrow shows the throw pose.
func (s *Session) PlayerThrow() {
	frames := s.ThrowFrames
	if frames <= 0 {
		frames = 30
	}
	system.PlayerThrow(s.World, frames)
	s.Audio.Play("throw")
}

// ClearScene destroys map objects that have scrolled off the left edge.
func (s *Session) ClearScene() int {
	camX, _, _, _ := system.CameraView(s.World)
	cleared := 0
	ecs.ForEach2(s.World, component.ClearableComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Clearable, t *component.Transform) {
		w, _ := s.spriteSize(e)
		left := t.X
		if sprite, ok := ecs.Get(s.World, e, component.SpriteComponent.Kind()); ok {
			left -= sprite.OriginX * w
		}
		if left+w < camX {
			ecs.DestroyEntity(s.World, e)
			cleared++
		}
	})
	return cleared
}
