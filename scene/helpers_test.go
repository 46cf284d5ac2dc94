package scene

import (
	"testing"
	"time"

	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
	"github.com/milk9111/twentytwenty/ecs/system"
	"github.com/milk9111/twentytwenty/levels"
	"github.com/milk9111/twentytwenty/prefabs"
)

const testLevel = `
name: test
width: 4000
height: 720
spawn: {x: 100, y: 580}
ground:
  - {x: 0, y: 640, w: 4000, h: 80}
layers:
  - module: level0
    objects:
      - {name: 0-ball, x: 300, y: 640}
  - module: level3
    objects:
      - {name: 3-home-wall1, x: 1000, y: 640}
      - {name: 3-home-wall2, x: 1300, y: 640}
      - {name: 3-cat,        x: 1100, y: 640}
      - {name: 3-toilet,     x: 1050, y: 640}
      - {name: 3-book1,      x: 1060, y: 640}
      - {name: 3-book2,      x: 1070, y: 640}
      - {name: 3-closed,     x: 1500, y: 640}
      - {name: mystery,      x: 1600, y: 640}
triggers:
  - {x: 0,    module: level0, action: checkpoint0}
  - {x: 900,  module: level3, action: startQuarantine}
checkpoints:
  - {id: 0, x: 100}
`

type fakeAudio struct {
	calls []string
	main  string
}

func (a *fakeAudio) Add(name string, _ bool, _ float64) error {
	a.calls = append(a.calls, "add:"+name)
	return nil
}
func (a *fakeAudio) Play(name string) { a.calls = append(a.calls, "play:"+name) }
func (a *fakeAudio) Stop(name string) { a.calls = append(a.calls, "stop:"+name) }
func (a *fakeAudio) FadeIn(name string, _ float64) { a.calls = append(a.calls, "fadein:"+name) }
func (a *fakeAudio) SetMain(name string) { a.main = name; a.calls = append(a.calls, "main:"+name) }
func (a *fakeAudio) StopMain() { a.main = ""; a.calls = append(a.calls, "stopmain") }
func (a *fakeAudio) Destroy(name string) { a.calls = append(a.calls, "destroy:"+name) }

func (a *fakeAudio) called(call string) bool {
	for _, c := range a.calls {
		if c == call {
			return true
		}
	}
	return false
}

type fakeGoals struct {
	goals []string
}

func (g *fakeGoals) ReachGoal(name string) { g.goals = append(g.goals, name) }

type fakeStore struct {
	saved []int
}

func (f *fakeStore) SaveCheckpoint(id int) error {
	f.saved = append(f.saved, id)
	return nil
}

type harness struct {
	world   *ecs.World
	physics *system.PhysicsSystem
	timers  *system.TimerSystem
	tweens  *system.TweenSystem
	attach  *system.AttachSystem
	lib     *render.AnimationLibrary
	audio   *fakeAudio
	goals   *fakeGoals
	store   *fakeStore
	stage   Stage
	session *Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	level, err := levels.Parse([]byte(testLevel))
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}

	h := &harness{
		world:   ecs.NewWorld(),
		physics: system.NewPhysicsSystem(0),
		timers:  system.NewTimerSystem(0),
		tweens:  system.NewTweenSystem(0),
		attach:  system.NewAttachSystem(),
		lib:     render.NewAnimationLibrary(nil),
		audio:   &fakeAudio{},
		goals:   &fakeGoals{},
		store:   &fakeStore{},
	}
	h.stage, err = BuildStage(h.world, level, StageOptions{
		Player: prefabs.PlayerSpec{MoveSpeed: 300, JumpSpeed: 700, Collider: prefabs.ColliderSpec{Width: 36, Height: 60}},
	})
	if err != nil {
		t.Fatalf("build stage: %v", err)
	}
	h.session, err = NewSession(Deps{
		World:       h.world,
		Colliders:   h.physics,
		Timers:      h.timers,
		Animations:  h.lib,
		Audio:       h.audio,
		Goals:       h.goals,
		Checkpoints: h.store,
	}, level)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(h.session.Close)
	return h
}

// step runs one frame of the systems the level code depends on.
func (h *harness) step() {
	h.timers.Update(h.world)
	h.tweens.Update(h.world)
	h.physics.Update(h.world)
	h.attach.Update(h.world)
}

func (h *harness) level3() *level3 {
	return h.session.byName["level3"].(*level3)
}

func (h *harness) level0() *level0 {
	return h.session.byName["level0"].(*level0)
}

func (h *harness) events(typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, evt := range h.world.Events().Drain() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	return tr
}

const testStep = time.Second / 60
