package analytics

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// Goal is one reached milestone.
type Goal struct {
	RunID string
	Name  string
	At    time.Time
}

// Tracker records goals for one run. Reporting is fire and forget: a
// tracker never fails the caller.
type Tracker struct {
	runID   uuid.UUID
	counter string
	goals   []Goal
	seen    map[string]bool
	// Sink receives each goal the first time it is reached in a run.
	Sink func(Goal)
	now  func() time.Time
}

// NewTracker starts a run with a fresh id. counter names the analytics
// property goals are reported to.
func NewTracker(counter string) *Tracker {
	return &Tracker{
		runID:   uuid.New(),
		counter: counter,
		seen:    make(map[string]bool),
		now:     time.Now,
	}
}

// RunID identifies this run.
func (t *Tracker) RunID() string {
	if t == nil {
		return ""
	}
	return t.runID.String()
}

// ReachGoal reports name. Repeats within a run, as after a restart from a
// checkpoint, are dropped.
func (t *Tracker) ReachGoal(name string) {
	if t == nil || name == "" || t.seen[name] {
		return
	}
	t.seen[name] = true
	g := Goal{RunID: t.runID.String(), Name: name, At: t.now()}
	t.goals = append(t.goals, g)
	log.Printf("analytics: %s reach goal %s (run %s)", t.counter, name, g.RunID)
	if t.Sink != nil {
		t.Sink(g)
	}
}

// Goals returns the goals reached so far, in order.
func (t *Tracker) Goals() []Goal {
	if t == nil {
		return nil
	}
	return append([]Goal(nil), t.goals...)
}
