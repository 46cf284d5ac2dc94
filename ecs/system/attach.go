package system

import (
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

// AttachSystem keeps attached entities at their offset from the parent and
// destroys them once the parent is gone.
type AttachSystem struct{}

func NewAttachSystem() *AttachSystem {
	return &AttachSystem{}
}

func (s *AttachSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.AttachmentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, a *component.Attachment, t *component.Transform) {
		parent := ecs.Entity(a.Parent)
		pt, ok := ecs.Get(w, parent, component.TransformComponent.Kind())
		if !ok || !ecs.IsAlive(w, parent) {
			ecs.DestroyEntity(w, e)
			return
		}
		t.X = pt.X + a.OffsetX
		t.Y = pt.Y + a.OffsetY
	})
}

// Attach places child at (offsetX, offsetY) from parent and keeps it there.
func Attach(w *ecs.World, child, parent ecs.Entity, offsetX, offsetY float64) error {
	if pt, ok := ecs.Get(w, parent, component.TransformComponent.Kind()); ok {
		if t, ok := ecs.Get(w, child, component.TransformComponent.Kind()); ok {
			t.X = pt.X + offsetX
			t.Y = pt.Y + offsetY
		}
	}
	return ecs.Add(w, child, component.AttachmentComponent.Kind(), &component.Attachment{
		Parent:  component.EntityRef(parent),
		OffsetX: offsetX,
		OffsetY: offsetY,
	})
}

// Detach frees child from its parent, leaving it where it is.
func Detach(w *ecs.World, child ecs.Entity) {
	ecs.Remove(w, child, component.AttachmentComponent.Kind())
}
