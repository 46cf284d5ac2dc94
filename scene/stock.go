package scene

import (
	"fmt"

	"github.com/milk9111/twentytwenty/common"
	"github.com/milk9111/twentytwenty/ecs"
	"github.com/milk9111/twentytwenty/ecs/component"
	"github.com/milk9111/twentytwenty/ecs/render"
	"github.com/milk9111/twentytwenty/ecs/system"
	"github.com/milk9111/twentytwenty/prefabs"
)

// StockStage is the lifecycle position of a falling stock.
type StockStage int

const (
	// StockAirborne is falling with fire and a label.
	StockAirborne StockStage = iota
	// StockGrounded has hit the ground once and shows sparks.
	StockGrounded
	// StockInert is a static block in the ground group.
	StockInert
)

func (st StockStage) String() string {
	switch st {
	case StockAirborne:
		return "airborne"
	case StockGrounded:
		return "grounded"
	case StockInert:
		return "inert"
	default:
		return fmt.Sprintf("StockStage(%d)", int(st))
	}
}

// Stock is a falling hazard: a root body carrying the stock image, a fire
// emitter, a sparks emitter and a percent label. Landing on the player kills
// them; landing on the ground twice turns the stock into more ground.
type Stock struct {
	Kind  ObjectKind
	Label string

	Root   ecs.Entity
	Body   ecs.Entity
	Fire   ecs.Entity
	Sparks ecs.Entity
	Text   ecs.Entity

	stage          StockStage
	playerCollider *system.Collider
	groundCollider *system.Collider
	session        *Session
}

func (st *Stock) Stage() StockStage { return st.stage }

// Fallen reports whether the stock has touched the ground.
func (st *Stock) Fallen() bool { return st.stage != StockAirborne }

func (st *Stock) PlayerCollider() *system.Collider { return st.playerCollider }

func (st *Stock) GroundCollider() *system.Collider { return st.groundCollider }

// DefaultStockSpec matches prefabs/stock.yaml and is used when a session
// gets no spec.
var DefaultStockSpec = prefabs.StockSpec{
	SpawnY:       -100,
	Acceleration: 300,
	Bounce:       0.1,
	BorderWidth:  4,
	LabelOffsetY: -30,
	LabelSize:    32,
	Fire:         "3-stock-fire",
	Sparks:       "3-stock-sparks",
}

func (s *Session) stockSpec() prefabs.StockSpec {
	if s.Stock == (prefabs.StockSpec{}) {
		return DefaultStockSpec
	}
	return s.Stock
}

// DefineStockAnimations registers the fire and sparks clips.
func DefineStockAnimations(lib *render.AnimationLibrary, spec prefabs.StockSpec) {
	lib.Define(render.AnimationDef{Key: spec.Fire, FrameRate: 10, Repeat: render.RepeatForever})
	lib.Define(render.AnimationDef{Key: spec.Sparks, FrameRate: 10, HideOnComplete: true})
}

// SpawnStock drops a stock offsetX ahead of the player from above the
// screen.
func (s *Session) SpawnStock(kind ObjectKind, label string, offsetX float64) (*Stock, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if !kind.IsStock() {
		return nil, fmt.Errorf("%w: %v is not a stock", ErrInvalidArgument, kind)
	}
	player, ok := s.Player()
	if !ok {
		return nil, fmt.Errorf("scene: spawn stock: no player")
	}

	spec := s.stockSpec()
	spawnY := spec.SpawnY
	px, _ := s.PlayerPosition()
	x := px + offsetX

	st := &Stock{Kind: kind, Label: label, session: s}
	w := s.World

	var err error
	st.Root = ecs.CreateEntity(w)
	if err = ecs.Add(w, st.Root, component.TransformComponent.Kind(), &component.Transform{X: x, Y: spawnY, ScaleX: 1, ScaleY: 1}); err != nil {
		return nil, err
	}

	if st.Body, err = s.addImage(imageSpec{sheet: kind.String(), x: x, y: spawnY, originX: 0.5, originY: 0.5, depth: common.DepthImportant}); err != nil {
		return nil, err
	}
	bodyW, bodyH := s.spriteSize(st.Body)
	emitterY := bodyH/2 + spec.BorderWidth

	if st.Fire, err = s.addImage(imageSpec{sheet: spec.Fire, x: x, y: spawnY + emitterY, originX: 0.5, originY: 1, depth: common.DepthImportant}); err != nil {
		return nil, err
	}
	if st.Sparks, err = s.addImage(imageSpec{sheet: spec.Sparks, x: x, y: spawnY + emitterY, originX: 0.5, originY: 1, depth: common.DepthImportant}); err != nil {
		return nil, err
	}
	if sparks, ok := ecs.Get(w, st.Sparks, component.SpriteComponent.Kind()); ok {
		sparks.Hidden = true
	}
	if st.Text, err = s.addText(label, spec.LabelSize, x, spawnY+spec.LabelOffsetY, 0.5, 1, common.DepthImportant); err != nil {
		return nil, err
	}

	for _, part := range []struct {
		e      ecs.Entity
		dx, dy float64
	}{
		{st.Body, 0, 0},
		{st.Fire, 0, emitterY},
		{st.Sparks, 0, emitterY},
		{st.Text, 0, spec.LabelOffsetY},
	} {
		if err := system.Attach(w, part.e, st.Root, part.dx, part.dy); err != nil {
			return nil, err
		}
	}
	s.play(st.Fire, spec.Fire)

	// The body is centered on the root. Gravity is replaced by a constant
	// acceleration and the stock is too heavy for anything to push.
	if err := ecs.Add(w, st.Root, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:      bodyW,
		Height:     bodyH,
		Elasticity: spec.Bounce,
		Friction:   0.8,
		Immovable:  true,
		NoGravity:  true,
		AccelY:     spec.Acceleration,
	}); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, st.Root, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: component.LayerHazard,
		Mask:     component.LayerGround | component.LayerPlayer,
	}); err != nil {
		return nil, err
	}

	st.playerCollider = s.Colliders.AddCollider(system.Is(player), system.Is(st.Root), st.onPlayerContact)
	st.groundCollider = s.Colliders.AddCollider(system.Is(st.Root), system.Tagged(component.GroundTagComponent.Kind()), st.onGroundContact)
	s.stocks = append(s.stocks, st)
	return st, nil
}

// onPlayerContact sees the contact from the player's side: only a stock
// landing on the player's head is fatal.
func (st *Stock) onPlayerContact(c system.Contact) {
	if c.Touching.Up {
		st.session.GameOver()
	}
}

func (st *Stock) onGroundContact(system.Contact) {
	switch st.stage {
	case StockAirborne:
		st.land()
	case StockGrounded:
		st.settle()
	default:
		panic(fmt.Sprintf("scene: stock %v ground contact in stage %v", st.Kind, st.stage))
	}
}

// land swaps fire and label for a sparks burst.
func (st *Stock) land() {
	w := st.session.World
	st.stage = StockGrounded
	ecs.DestroyEntity(w, st.Fire)
	ecs.DestroyEntity(w, st.Text)
	st.session.play(st.Sparks, st.session.stockSpec().Sparks)
}

// settle retires the colliders and leaves the stock image behind as static
// ground at the root's last position.
func (st *Stock) settle() {
	s := st.session
	w := s.World
	st.stage = StockInert
	st.groundCollider.Destroy()
	st.playerCollider.Destroy()
	ecs.DestroyEntity(w, st.Sparks)

	x, y := 0.0, 0.0
	if t, ok := ecs.Get(w, st.Root, component.TransformComponent.Kind()); ok {
		x, y = t.X, t.Y
	}
	system.Detach(w, st.Body)
	ecs.DestroyEntity(w, st.Root)

	if t, ok := ecs.Get(w, st.Body, component.TransformComponent.Kind()); ok {
		t.X, t.Y = x, y
	}
	if err := s.addBody(st.Body, component.PhysicsBody{Static: true, Friction: 0.8, Elasticity: 1}, groundLayer); err != nil {
		panic(fmt.Sprintf("scene: stock %v settle: %v", st.Kind, err))
	}
	if err := ecs.Add(w, st.Body, component.GroundTagComponent.Kind(), &component.GroundTag{}); err != nil {
		panic(fmt.Sprintf("scene: stock %v settle: %v", st.Kind, err))
	}
}

// release retires the colliders of a stock that never settled.
func (st *Stock) release() {
	st.playerCollider.Destroy()
	st.groundCollider.Destroy()
}
