package scene

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/render"
	"github.com/milk9111/twentytwenty/ecs/system"
	"github.com/milk9111/twentytwenty/prefabs"
)

// Colliders registers collision callbacks; the physics system implements it.
type Colliders interface {
	AddCollider(a, b system.Target, fn system.ColliderFunc) *system.Collider
}

// Scheduler runs callbacks on the game clock; the timer system implements
// it. Removing a returned timer is idempotent.
type Scheduler interface {
	Every(delay time.Duration, fn func()) *system.Timer
	After(delay time.Duration, fn func()) *system.Timer
}

// Audio plays the named tracks and effects. SetMain switches the "drive"
// theme that plays between set-pieces.
type Audio interface {
	Add(name string, loop bool, volume float64) error
	Play(name string)
	Stop(name string)
	FadeIn(name string, volume float64)
	SetMain(name string)
	StopMain()
	Destroy(name string)
}

// GoalTracker records progress milestones. It must not block.
type GoalTracker interface {
	ReachGoal(name string)
}

// CheckpointStore persists the last checkpoint reached.
type CheckpointStore interface {
	SaveCheckpoint(id int) error
}

// Deps are the collaborators a session drives. World, Colliders, Timers and
// Animations are required; the rest fall back to no-ops.
type Deps struct {
	World       *ecs.World
	Colliders   Colliders
	Timers      Scheduler
	Animations  *render.AnimationLibrary
	Audio       Audio
	Goals       GoalTracker
	Checkpoints CheckpointStore
	// Images loads sheets for sprites. Nil leaves sprites without images,
	// which is enough for headless runs.
	Images      func(name string) (*ebiten.Image, error)
	Stock       prefabs.StockSpec
	ThrowFrames int
	Debug       bool
}

type noAudio struct{}

func (noAudio) Add(string, bool, float64) error { return nil }
func (noAudio) Play(string)                      {}
func (noAudio) Stop(string)                      {}
func (noAudio) FadeIn(string, float64)           {}
func (noAudio) SetMain(string)                   {}
func (noAudio) StopMain()                        {}
func (noAudio) Destroy(string)                   {}

type noGoals struct{}

func (noGoals) ReachGoal(string) {}

type noCheckpoints struct{}

func (noCheckpoints) SaveCheckpoint(int) error { return nil }
