package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/system"
)

type silentTrack struct{ playing bool }

func (s *silentTrack) Play() { s.playing = true }
func (s *silentTrack) Pause() { s.playing = false }
func (s *silentTrack) Rewind() error { return nil }
func (s *silentTrack) IsPlaying() bool { return s.playing }
func (s *silentTrack) SetVolume(float64) {}

func newTestGame(t *testing.T, checkpoint int) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	cfg := Config{
		Level:      "world.yaml",
		SaveApp:    fmt.Sprintf("twentytwenty_game_test_%d", time.Now().UnixNano()),
		Checkpoint: checkpoint,
		Counter:    "test",
	}
	g, err := NewGame(cfg, loaders{
		tracks: func(string) (system.Track, error) { return &silentTrack{}, nil },
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func playerX(t *testing.T, w *ecs.World) float64 {
	t.Helper()
	x, _, ok := system.PlayerPosition(w)
	if !ok {
		t.Fatalf("no player")
	}
	return x
}

func TestNewGameStartsAtSpawn(t *testing.T) {
	g := newTestGame(t, -1)
	if got, want := playerX(t, g.world), g.level.Spawn.X; got != want {
		t.Fatalf("expected player at spawn %v, got %v", want, got)
	}
	if len(g.world.Systems()) != 12 {
		t.Fatalf("expected 12 systems, got %d", len(g.world.Systems()))
	}
}

func TestGameOverRestartsFromCheckpoint(t *testing.T) {
	g := newTestGame(t, -1)
	old := g.session

	g.world.Events().Push(ecs.Event{Type: ecs.EventGameOver, Data: 5})
	if err := g.handleEvents(); err != nil {
		t.Fatalf("handle events: %v", err)
	}
	if !old.Closed() {
		t.Fatalf("expected the old session closed")
	}
	cp, _ := g.level.Checkpoint(5)
	if got := playerX(t, g.world); got != cp.X {
		t.Fatalf("expected player at checkpoint x %v, got %v", cp.X, got)
	}
	ecs.ForEach(g.world, component.TriggerComponent.Kind(), func(_ ecs.Entity, tr *component.Trigger) {
		if tr.X < cp.X && !tr.Fired {
			t.Fatalf("trigger %s at %v behind the checkpoint should not fire again", tr.Action, tr.X)
		}
		if tr.X >= cp.X && tr.Fired {
			t.Fatalf("trigger %s at %v ahead of the checkpoint should be armed", tr.Action, tr.X)
		}
	})
}

func TestCheckpointsPersistAndReport(t *testing.T) {
	g := newTestGame(t, -1)
	if err := g.session.Run("level3", "checkpoint4"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if g.store.LoadCheckpoint() != 4 {
		t.Fatalf("expected checkpoint 4 saved, got %d", g.store.LoadCheckpoint())
	}
	goals := g.tracker.Goals()
	if len(goals) != 1 || goals[0].Name != "CHECKPOINT_4" {
		t.Fatalf("expected CHECKPOINT_4 goal, got %+v", goals)
	}
	if g.sound.Main() != "full" {
		t.Fatalf("expected the full theme, got %q", g.sound.Main())
	}
}
