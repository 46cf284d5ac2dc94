package system

import (
	"log"
	"sort"

	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

// TriggerFunc runs a level action named by a trigger.
type TriggerFunc func(module, action string)

// TriggerSystem fires each trigger once, the first frame the player is at or
// past its X. Triggers passed in the same frame fire in X order.
type TriggerSystem struct {
	fire  TriggerFunc
	Debug bool
}

func NewTriggerSystem(fire TriggerFunc) *TriggerSystem {
	return &TriggerSystem{fire: fire}
}

func (s *TriggerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	px, _, ok := PlayerPosition(w)
	if !ok {
		return
	}

	var due []*component.Trigger
	ecs.ForEach(w, component.TriggerComponent.Kind(), func(_ ecs.Entity, tr *component.Trigger) {
		if !tr.Fired && px >= tr.X {
			due = append(due, tr)
		}
	})
	sort.SliceStable(due, func(i, j int) bool { return due[i].X < due[j].X })

	for _, tr := range due {
		tr.Fired = true
		if s.Debug {
			log.Printf("trigger: %s.%s at x=%.0f", tr.Module, tr.Action, tr.X)
		}
		if s.fire != nil {
			s.fire(tr.Module, tr.Action)
		}
	}
}

// ResetTriggers re-arms every trigger past x, used when restarting from a
// checkpoint.
func ResetTriggers(w *ecs.World, x float64) {
	ecs.ForEach(w, component.TriggerComponent.Kind(), func(_ ecs.Entity, tr *component.Trigger) {
		if tr.X > x {
			tr.Fired = false
		}
	})
}
