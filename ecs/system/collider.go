package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

// Touching records which sides of an object were in contact this step.
type Touching struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// None reports whether no side is touching.
func (t Touching) None() bool {
	return !t.Up && !t.Down && !t.Left && !t.Right
}

func (t Touching) merge(o Touching) Touching {
	return Touching{
		Up:    t.Up || o.Up,
		Down:  t.Down || o.Down,
		Left:  t.Left || o.Left,
		Right: t.Right || o.Right,
	}
}

// touchingFromNormal classifies a contact normal that points from the
// object toward whatever it hit. Screen-down is +Y.
func touchingFromNormal(n cp.Vector) Touching {
	return Touching{
		Up:    n.Y < -0.5,
		Down:  n.Y > 0.5,
		Left:  n.X < -0.5,
		Right: n.X > 0.5,
	}
}

// Contact is delivered to a collider callback. Touching is from A's side.
type Contact struct {
	A        ecs.Entity
	B        ecs.Entity
	Touching Touching
}

// ColliderFunc handles one contact between a collider's two targets.
type ColliderFunc func(c Contact)

// Target selects the entities one side of a collider applies to.
type Target func(w *ecs.World, e ecs.Entity) bool

// Is targets a single entity.
func Is(target ecs.Entity) Target {
	return func(_ *ecs.World, e ecs.Entity) bool { return e == target }
}

// Tagged targets every entity carrying the component, such as the ground
// group.
func Tagged[T any](kind component.ComponentKind[T]) Target {
	return func(w *ecs.World, e ecs.Entity) bool { return ecs.Has(w, e, kind) }
}

// Collider is a registered callback between two targets. It fires at most
// once per step for each colliding pair until destroyed.
type Collider struct {
	name   string
	a, b   Target
	fn     ColliderFunc
	active bool
	calls  int
}

// Destroy retires the collider. Destroying twice is a no-op.
func (c *Collider) Destroy() {
	if c == nil {
		return
	}
	c.active = false
}

// Active reports whether the collider still receives contacts.
func (c *Collider) Active() bool {
	return c != nil && c.active
}

// Calls returns how many contacts were delivered.
func (c *Collider) Calls() int {
	if c == nil {
		return 0
	}
	return c.calls
}

// Invoke delivers a contact. Delivering to a retired collider means the
// dispatcher or a caller lost track of its lifecycle, so it panics.
func (c *Collider) Invoke(contact Contact) {
	if c == nil {
		return
	}
	if !c.active {
		panic(fmt.Sprintf("physics: collider %q invoked after Destroy (A=%v B=%v)", c.name, contact.A, contact.B))
	}
	c.calls++
	if c.fn != nil {
		c.fn(contact)
	}
}

// rawContact is one arbiter observed during a step. Normal points from A
// to B.
type rawContact struct {
	a, b   ecs.Entity
	normal cp.Vector
}

// ColliderRegistry owns collider registrations and routes step contacts to
// them.
type ColliderRegistry struct {
	colliders []*Collider
}

// AddCollider registers fn for contacts between a and b.
func (r *ColliderRegistry) AddCollider(name string, a, b Target, fn ColliderFunc) *Collider {
	c := &Collider{name: name, a: a, b: b, fn: fn, active: true}
	r.colliders = append(r.colliders, c)
	return c
}

// Len returns the number of active colliders.
func (r *ColliderRegistry) Len() int {
	n := 0
	for _, c := range r.colliders {
		if c.active {
			n++
		}
	}
	return n
}

type contactPair struct {
	a, b ecs.Entity
}

// dispatch routes the contacts of one step. Colliders are visited in
// registration order; each pair reaches a collider once with the union of
// its touch flags. Colliders and entities retired by an earlier callback in
// the same dispatch are skipped.
func (r *ColliderRegistry) dispatch(w *ecs.World, contacts []rawContact) {
	r.prune()
	if len(contacts) == 0 || len(r.colliders) == 0 {
		return
	}
	colliders := append([]*Collider(nil), r.colliders...)
	for _, c := range colliders {
		if !c.active {
			continue
		}
		order := make([]contactPair, 0, 4)
		touches := make(map[contactPair]Touching, 4)
		for _, rc := range contacts {
			var pair contactPair
			var t Touching
			switch {
			case c.a(w, rc.a) && c.b(w, rc.b):
				pair, t = contactPair{rc.a, rc.b}, touchingFromNormal(rc.normal)
			case c.a(w, rc.b) && c.b(w, rc.a):
				pair, t = contactPair{rc.b, rc.a}, touchingFromNormal(rc.normal.Neg())
			default:
				continue
			}
			prev, seen := touches[pair]
			if !seen {
				order = append(order, pair)
			}
			touches[pair] = prev.merge(t)
		}
		for _, pair := range order {
			if !c.active {
				break
			}
			if !ecs.IsAlive(w, pair.a) || !ecs.IsAlive(w, pair.b) {
				continue
			}
			c.Invoke(Contact{A: pair.a, B: pair.b, Touching: touches[pair]})
		}
	}
	r.prune()
}

func (r *ColliderRegistry) prune() {
	kept := r.colliders[:0]
	for _, c := range r.colliders {
		if c.active {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(r.colliders); i++ {
		r.colliders[i] = nil
	}
	r.colliders = kept
}
