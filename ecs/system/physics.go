package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
)

const collisionTypeBody cp.CollisionType = 1

const (
	groundGraceFrames = 6
	// immovableMass stands in for an infinite mass so the solver never
	// divides by zero against static ground.
	immovableMass = 1e6
	defaultMass   = 1.0
)

type PhysicsSystem struct {
	ColliderRegistry

	space         *cp.Space
	step          time.Duration
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	contacts []rawContact
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem(step time.Duration) *PhysicsSystem {
	if step <= 0 {
		step = common.Step
	}
	ps := &PhysicsSystem{
		step:     step,
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
	}
	ps.space = newSpace()
	return ps
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// AddCollider registers a collision callback between two targets. The
// callback runs after the step that observed the contact, so it may create
// and destroy entities and bodies.
func (ps *PhysicsSystem) AddCollider(a, b Target, fn ColliderFunc) *Collider {
	return ps.ColliderRegistry.AddCollider("", a, b, fn)
}

// AddNamedCollider is AddCollider with a name used in panics and logs.
func (ps *PhysicsSystem) AddNamedCollider(name string, a, b Target, fn ColliderFunc) *Collider {
	return ps.ColliderRegistry.AddCollider(name, a, b, fn)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.applyVelocityRequests(w)

	ps.contacts = ps.contacts[:0]
	ps.space.Step(ps.step.Seconds())

	ps.syncTransforms(w)
	ps.updatePlayerContacts(w)
	ps.dispatch(w, ps.contacts)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = ps
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sys.shapes[shapeA]
		b, okB := sys.shapes[shapeB]
		if !okA || !okB || a == b {
			return true
		}
		sys.contacts = append(sys.contacts, rawContact{a: a, b: b, normal: arb.Normal()})
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		info := ps.entities[e]
		if body.Disabled {
			if info != nil {
				ps.removeBody(e, info)
				body.Body, body.Shape = nil, nil
			}
			return
		}
		if info != nil {
			return
		}

		layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
		info = ps.createBodyInfo(t, body, layer)
		ps.entities[e] = info
		for _, s := range info.shapes {
			ps.shapes[s] = e
		}
		body.Body = info.body
		body.Shape = info.shapes[0]
	})
}

func (ps *PhysicsSystem) createBodyInfo(t *component.Transform, bodyComp *component.PhysicsBody, layer *component.CollisionLayer) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = 32, 32
	}
	centerX := t.X + bodyComp.OffsetX
	centerY := t.Y + bodyComp.OffsetY

	filter := shapeFilter(layer)

	if bodyComp.Static {
		bb := cp.BB{L: centerX - width/2, B: centerY - height/2, R: centerX + width/2, T: centerY + height/2}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeBody)
		shape.SetFilter(filter)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = defaultMass
	}
	if bodyComp.Immovable {
		mass = immovableMass
	}

	// Infinite moment keeps platformer bodies upright.
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(cp.Vector{X: centerX, Y: centerY})
	if bodyComp.NoGravity || bodyComp.AccelX != 0 || bodyComp.AccelY != 0 {
		accel := cp.Vector{X: bodyComp.AccelX, Y: bodyComp.AccelY}
		noGravity := bodyComp.NoGravity
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
			g := accel
			if !noGravity {
				g = g.Add(gravity)
			}
			cp.BodyUpdateVelocity(b, g, damping, dt)
		})
	}

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeBody)
	shape.SetFilter(filter)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shapes: []*cp.Shape{shape}}
}

func shapeFilter(layer *component.CollisionLayer) cp.ShapeFilter {
	category, mask := component.LayerGround, ^uint32(0)
	if layer != nil {
		if layer.Category != 0 {
			category = layer.Category
		}
		if layer.Mask != 0 {
			mask = layer.Mask
		}
	}
	return cp.NewShapeFilter(cp.NO_GROUP, uint(category), uint(mask))
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	// No top edge: hazards spawn above the visible area and fall in.
	segments := [][2]cp.Vector{
		{{X: 0, Y: bounds.Height}, {X: bounds.Width, Y: bounds.Height}},
		{{X: 0, Y: -bounds.Height}, {X: 0, Y: bounds.Height}},
		{{X: bounds.Width, Y: -bounds.Height}, {X: bounds.Width, Y: bounds.Height}},
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg[0], seg[1], 1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeBody)
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
		ps.shapes[shape] = boundsEntity
	}
	ps.entities[boundsEntity] = info
}

func (ps *PhysicsSystem) applyVelocityRequests(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, body *component.PhysicsBody) {
		if !body.VelocitySet || body.Body == nil || body.Static {
			return
		}
		body.Body.SetVelocityVector(cp.Vector{X: body.VelocityX, Y: body.VelocityY})
		body.VelocitySet = false
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Body == nil || body.Static {
			return
		}
		pos := body.Body.Position()
		t.X = pos.X - body.OffsetX
		t.Y = pos.Y - body.OffsetY
	})
}

// updatePlayerContacts derives grounded state from this step's contacts.
func (ps *PhysicsSystem) updatePlayerContacts(w *ecs.World) {
	grounded := make(map[ecs.Entity]bool)
	for _, rc := range ps.contacts {
		if touchingFromNormal(rc.normal).Down {
			grounded[rc.a] = true
		}
		if touchingFromNormal(rc.normal.Neg()).Down {
			grounded[rc.b] = true
		}
	}
	ecs.ForEach(w, component.PlayerCollisionComponent.Kind(), func(e ecs.Entity, pc *component.PlayerCollision) {
		pc.Grounded = grounded[e]
		if pc.Grounded {
			pc.GroundGrace = groundGraceFrames
		} else if pc.GroundGrace > 0 {
			pc.GroundGrace--
		}
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind()) {
			continue
		}
		ps.removeBody(e, info)
	}
}

func (ps *PhysicsSystem) removeBody(e ecs.Entity, info *bodyInfo) {
	for _, shape := range info.shapes {
		ps.space.RemoveShape(shape)
		delete(ps.shapes, shape)
	}
	if info.body != nil && !info.static {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
}

// BodyCount returns how many entities currently have bodies in the space.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}

// SetVelocity requests a velocity change for e on the next step.
func SetVelocity(w *ecs.World, e ecs.Entity, vx, vy float64) {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	body.VelocitySet = true
	body.VelocityX = vx
	body.VelocityY = vy
}

// SetVelocityX changes only the horizontal velocity, keeping the current
// vertical one.
func SetVelocityX(w *ecs.World, e ecs.Entity, vx float64) {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	vy := body.VelocityY
	if body.Body != nil {
		vy = body.Body.Velocity().Y
	}
	SetVelocity(w, e, vx, vy)
}
